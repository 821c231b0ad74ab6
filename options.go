package nurbs

// Option configures a curve or surface at construction.
type Option func(*options)

type options struct {
	policy DomainPolicy
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithDomainPolicy selects how out-of-domain parameters are handled.
// The default is DomainClamp.
func WithDomainPolicy(policy DomainPolicy) Option {
	return func(o *options) {
		o.policy = policy
	}
}
