package core

// Button identifies a front panel pushbutton.
type Button uint8

const (
	Button1 Button = iota + 1 // timebase
	Button2                   // reserved
	Button3                   // reserved
	Button4                   // signal generator frequency
)

// NumButtons is the number of front panel buttons.
const NumButtons = 4

const eventQueueSize = 8

// EventQueue carries debounced presses from the poller (or a GPIO
// interrupt) to the foreground loop. Presses beyond its capacity are
// dropped; a human cannot outrun a render pass.
type EventQueue struct {
	buf     [eventQueueSize]Button
	head    uint8 // next read
	tail    uint8 // next write
	dropped uint32
}

// Push queues a press. It reports false when the queue was full.
func (q *EventQueue) Push(b Button) bool {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	next := (q.tail + 1) % eventQueueSize
	if next == q.head {
		q.dropped++
		return false
	}
	q.buf[q.tail] = b
	q.tail = next
	return true
}

// Pop removes the oldest press.
func (q *EventQueue) Pop() (Button, bool) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if q.head == q.tail {
		return 0, false
	}
	b := q.buf[q.head]
	q.head = (q.head + 1) % eventQueueSize
	return b, true
}

// Len returns the number of queued presses.
func (q *EventQueue) Len() int {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	return int((q.tail + eventQueueSize - q.head) % eventQueueSize)
}

// Dropped returns how many presses were lost to a full queue.
func (q *EventQueue) Dropped() uint32 {
	return q.dropped
}

// Debouncer turns a raw contact level into press edges. The level must
// hold for Hold ticks before it is accepted.
type Debouncer struct {
	Hold uint32

	stable    bool
	candidate bool
	since     uint32
}

// Update feeds one sample taken at now and reports a press edge (a newly
// accepted pressed level).
func (d *Debouncer) Update(pressed bool, now uint32) bool {
	if pressed != d.candidate {
		d.candidate = pressed
		d.since = now
		return false
	}
	if pressed == d.stable || now-d.since < d.Hold {
		return false
	}
	d.stable = pressed
	return pressed
}

// Pressed returns the debounced level.
func (d *Debouncer) Pressed() bool {
	return d.stable
}

// ButtonPoller samples the four button pins and queues debounced presses.
// Buttons are wired to ground with pull-ups, so a low level is a press.
type ButtonPoller struct {
	drv  GPIODriver
	pins [NumButtons]GPIOPin
	deb  [NumButtons]Debouncer
}

// Configure sets up the pins as pulled-up inputs.
func (p *ButtonPoller) Configure(drv GPIODriver, pins [NumButtons]GPIOPin, hold uint32) error {
	p.drv = drv
	p.pins = pins
	for i := range p.deb {
		p.deb[i] = Debouncer{Hold: hold}
		if err := drv.ConfigureInputPullUp(pins[i]); err != nil {
			return err
		}
	}
	return nil
}

// Poll samples every button once and pushes new presses into q.
func (p *ButtonPoller) Poll(now uint32, q *EventQueue) {
	if p.drv == nil {
		return
	}
	for i := range p.pins {
		if p.deb[i].Update(!p.drv.ReadPin(p.pins[i]), now) {
			q.Push(Button(i + 1))
		}
	}
}
