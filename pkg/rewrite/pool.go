package rewrite

import "sync"

type task func()

// pool runs tasks on a fixed number of workers. Workers start immediately;
// wait closes the queue and blocks until every submitted task has finished.
type pool struct {
	tasks chan task
	wg    sync.WaitGroup
}

func newPool(workers int) *pool {
	if workers <= 0 {
		workers = 1
	}
	p := &pool{tasks: make(chan task, workers)}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for t := range p.tasks {
				t()
			}
		}()
	}
	return p
}

func (p *pool) submit(t task) {
	p.tasks <- t
}

func (p *pool) wait() {
	close(p.tasks)
	p.wg.Wait()
}
