package queue

import "time"

func (c *Client) SetClock(now func() time.Time) { c.now = now }

func (w *Worker) SetClock(now func() time.Time) { w.now = now }
