package safego

import (
	"time"
)

const defaultRestartTimeout = 2 * time.Second

type RecoverHandler func(value interface{})

var GlobalRecoverHandler RecoverHandler = func(value interface{}) {}

type Execution struct {
	f              func()
	recoverHandler RecoverHandler
	restartTimeout time.Duration

	restartable bool
}

//Run runs a new goroutine with panic handler: the panic is passed to
//GlobalRecoverHandler and the goroutine dies silently
func Run(f func()) *Execution {
	exec := Execution{
		f:              f,
		recoverHandler: GlobalRecoverHandler,
		restartable:    false,
	}
	return exec.run()
}

//RunWithRestart runs a new goroutine with panic handler:
//the panic is passed to GlobalRecoverHandler, then the goroutine
//is restarted after restartTimeout
func RunWithRestart(f func()) *Execution {
	exec := Execution{
		f:              f,
		recoverHandler: GlobalRecoverHandler,
		restartTimeout: defaultRestartTimeout,
		restartable:    true,
	}
	return exec.run()
}

func (exec *Execution) run() *Execution {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				exec.recoverHandler(r)

				if exec.restartable {
					time.Sleep(exec.restartTimeout)
					exec.run()
				}
			}
		}()
		exec.f()
	}()
	return exec
}

func (exec *Execution) WithRestartTimeout(timeout time.Duration) *Execution {
	exec.restartTimeout = timeout
	return exec
}
