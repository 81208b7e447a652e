package aspect

// Advisor pairs an interceptor with the pointcut limiting where it applies.
type Advisor interface {
	Pointcut() Pointcut
	Interceptor() Interceptor
}

// DefaultAdvisor is the stock Advisor implementation.
type DefaultAdvisor struct {
	pointcut    Pointcut
	interceptor Interceptor
	order       int
	ordered     bool
}

// NewAdvisor scopes ic to pc. A nil pointcut matches everything.
func NewAdvisor(pc Pointcut, ic Interceptor) *DefaultAdvisor {
	if pc == nil {
		pc = All()
	}
	return &DefaultAdvisor{pointcut: pc, interceptor: ic}
}

// WithOrder sets explicit precedence and returns the advisor.
func (a *DefaultAdvisor) WithOrder(order int) *DefaultAdvisor {
	a.order = order
	a.ordered = true
	return a
}

// Pointcut implements Advisor.
func (a *DefaultAdvisor) Pointcut() Pointcut { return a.pointcut }

// Interceptor implements Advisor.
func (a *DefaultAdvisor) Interceptor() Interceptor { return a.interceptor }

// Order reports the advisor's precedence, falling back to the interceptor's.
func (a *DefaultAdvisor) Order() int {
	if a.ordered {
		return a.order
	}
	order, _ := OrderOf(a.interceptor)
	return order
}
