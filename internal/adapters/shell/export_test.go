package shell

var (
	ResolveEnvironment = resolveEnvironment
	LookPath           = lookPath
)

// WithEnviron replaces the process environment seen by the executor.
func (e *Executor) WithEnviron(environ func() []string) *Executor {
	e.environ = environ
	return e
}

// WithEnviron replaces the process environment seen by the prober.
func (p *Prober) WithEnviron(environ func() []string) *Prober {
	p.environ = environ
	return p
}
