package tea

import (
	"fmt"
	"runtime/debug"
	"strings"

	"watchlater/internal/logging"
)

// Program owns the current model and the bound subscription tree. All of its
// methods must run on the scheduler's main context.
type Program[Model, Msg any] struct {
	model         Model
	view          func(Model)
	update        func(Model, Msg) (Model, Cmd[Msg])
	subscriptions func(Model) Sub[Msg]

	subs      Sub[Msg]
	cleared   bool
	scheduler Scheduler
	logger    logging.Logger
}

type Option func(*options)

type options struct {
	scheduler Scheduler
	logger    logging.Logger
}

func WithScheduler(scheduler Scheduler) Option {
	return func(o *options) {
		if scheduler != nil {
			o.scheduler = scheduler
		}
	}
}

func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New processes cmd against model and renders once before returning. The
// scheduler option is required. A nil subscriptions func means the program
// never subscribes.
func New[Model, Msg any](
	model Model,
	cmd Cmd[Msg],
	view func(Model),
	update func(Model, Msg) (Model, Cmd[Msg]),
	subscriptions func(Model) Sub[Msg],
	opts ...Option,
) *Program[Model, Msg] {
	o := options{logger: logging.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.scheduler == nil {
		panic("tea: a scheduler is required")
	}
	if view == nil {
		view = func(Model) {}
	}
	if subscriptions == nil {
		subscriptions = func(Model) Sub[Msg] { return NoSub[Msg]() }
	}
	p := &Program[Model, Msg]{
		model:         model,
		view:          view,
		update:        update,
		subscriptions: subscriptions,
		subs:          NoSub[Msg](),
		scheduler:     o.scheduler,
		logger:        o.logger.With(logging.F("component", "tea")),
	}
	p.processCmd(cmd)
	p.render()
	return p
}

// UI processes a host-originated message and renders the result.
func (p *Program[Model, Msg]) UI(msg Msg) {
	p.processAndRender(msg)
}

// Model returns the current snapshot.
func (p *Program[Model, Msg]) Model() Model {
	return p.model
}

// Clear unbinds the active subscription tree. Later renders no longer bind.
func (p *Program[Model, Msg]) Clear() {
	if p.cleared {
		return
	}
	p.cleared = true
	p.subs.unbind()
	p.subs = NoSub[Msg]()
}

func (p *Program[Model, Msg]) processAndRender(msg Msg) {
	p.process(msg)
	p.render()
}

func (p *Program[Model, Msg]) process(msg Msg) {
	if p.logger.Enabled(logging.Debug) {
		p.logger.Debug("update", logging.F("model", fmt.Sprintf("%+v", p.model)), logging.F("msg", prettyName(msg)))
	}
	model, cmd := p.update(p.model, msg)
	p.model = model
	p.processCmd(cmd)
}

func (p *Program[Model, Msg]) processCmd(cmd Cmd[Msg]) {
	switch c := cmd.(type) {
	case nil, NoneCmd[Msg]:
	case MsgCmd[Msg]:
		p.process(c.Msg)
	case EventCmd[Msg]:
		if c.Run != nil {
			c.Run()
		}
	case TaskCmd[Msg]:
		p.runTask(c.Run)
	case BatchCmd[Msg]:
		for _, member := range c.Cmds {
			p.processCmd(member)
		}
	default:
		panic(fmt.Sprintf("tea: unknown command %T", cmd))
	}
}

func (p *Program[Model, Msg]) runTask(task func() Msg) {
	p.scheduler.Execute(func() {
		msg, err := callTask(task)
		if err != nil {
			p.scheduler.Post(func() {
				p.logger.Error("task_panic", logging.Err(err))
				panic(err)
			})
			return
		}
		p.scheduler.Post(func() {
			p.processAndRender(msg)
		})
	})
}

func (p *Program[Model, Msg]) render() {
	p.view(p.model)
	if p.cleared {
		return
	}
	next := p.subscriptions(p.model)
	if next == nil {
		next = NoSub[Msg]()
	}
	if SubEqual(p.subs, next) {
		return
	}
	// Sources may deliver while binding, which renders again before bind
	// returns. Adopt the new tree first so that render sees it as current.
	prev := p.subs
	p.subs = next
	prev.unbind()
	next.bind(func(msg Msg) {
		p.scheduler.Post(func() {
			p.processAndRender(msg)
		})
	})
}

// TaskPanicError carries a panic raised by a task body back to the main
// context, where it is raised again.
type TaskPanicError struct {
	Value any
	Stack []byte
}

func (e *TaskPanicError) Error() string {
	return fmt.Sprintf("tea: task panicked: %v", e.Value)
}

func (e *TaskPanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func callTask[Msg any](task func() Msg) (msg Msg, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &TaskPanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return task(), nil
}

// prettyName is the message's type name without its package qualifier.
func prettyName(msg any) string {
	name := fmt.Sprintf("%T", msg)
	name = strings.TrimLeft(name, "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
