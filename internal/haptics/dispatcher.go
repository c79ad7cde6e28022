package haptics

import (
	"time"

	"github.com/banshee-data/haptics/internal/monitoring"
	"github.com/banshee-data/haptics/internal/serialmux"
	"github.com/banshee-data/haptics/internal/timeutil"
)

// Transport is the serial binding to one glove. Write is fire-and-forget.
type Transport interface {
	Open() bool
	IsOpen() bool
	Write(data []byte)
	Close()
}

// Config wires a Dispatcher to its collaborators. Zero fields are replaced
// with defaults by NewDispatcher.
type Config struct {
	// Factory opens serial devices. Defaults to real hardware ports.
	Factory serialmux.SerialPortFactory

	// Clock supplies the current time for cooldown checks.
	Clock timeutil.Clock

	// PortOptions is applied to both gloves. Defaults to 9600 8N1.
	PortOptions serialmux.PortOptions

	// PortName maps a port ID to a device name. Defaults to serialmux.PortName.
	PortName func(id uint16) string
}

// Dispatcher owns both glove bindings and their cooldown tables.
//
// A Dispatcher is not safe for concurrent use; callers sharing one across
// goroutines must serialise access.
type Dispatcher struct {
	cfg        Config
	transports [2]Transport
	cooldowns  [2]CooldownTable
}

// NewDispatcher returns a dispatcher with no open bindings. Call Initialize
// before sending feedback.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.Factory == nil {
		cfg.Factory = serialmux.RealSerialPortFactory{}
	}
	if cfg.Clock == nil {
		cfg.Clock = timeutil.RealClock{}
	}
	if cfg.PortOptions == (serialmux.PortOptions{}) {
		cfg.PortOptions = serialmux.DefaultPortOptions()
	}
	if cfg.PortName == nil {
		cfg.PortName = serialmux.PortName
	}
	return &Dispatcher{cfg: cfg}
}

// Initialize (re)opens the left and right gloves and clears all cooldowns.
// A glove that cannot be opened is logged and then ignored by ApplyFeedback
// until the next successful Initialize.
func (d *Dispatcher) Initialize(leftPortID, rightPortID uint16) {
	d.Close()

	for hand, id := range [2]uint16{leftPortID, rightPortID} {
		b := serialmux.NewBinding(d.cfg.PortName(id), d.cfg.PortOptions, d.cfg.Factory)
		if !b.Open() {
			monitoring.Logf("haptics: %s hand port %s not open, feedback disabled", Hand(hand), b.Path())
		}
		d.transports[hand] = b
	}

	now := d.cfg.Clock.Now()
	for hand := range d.cooldowns {
		if d.cooldowns[hand] == nil {
			d.cooldowns[hand] = NewCooldownTable(now)
			continue
		}
		d.cooldowns[hand].Reset(now)
	}
}

// Close releases both bindings. It is safe to call repeatedly.
func (d *Dispatcher) Close() {
	for hand, t := range d.transports {
		if t == nil {
			continue
		}
		t.Close()
		d.transports[hand] = nil
	}
}

// ApplyFeedback sends req to each hand it selects unless that hand's
// location is still cooling down. Dropped requests have no side effects.
func (d *Dispatcher) ApplyFeedback(req FeedbackRequest) {
	d.Dispatch(req)
}

// Dispatch behaves like ApplyFeedback and returns the hands a command was
// written to.
func (d *Dispatcher) Dispatch(req FeedbackRequest) (sent []Hand) {
	// one sample for both hands
	now := d.cfg.Clock.Now()
	for _, hand := range req.Hand.Hands() {
		if d.apply(hand, req, now) {
			sent = append(sent, hand)
		}
	}
	return sent
}

func (d *Dispatcher) apply(hand Hand, req FeedbackRequest, now time.Time) bool {
	t := d.transports[hand]
	if t == nil || !t.IsOpen() {
		return false
	}

	table := d.cooldowns[hand]
	if table == nil {
		table = make(CooldownTable)
		d.cooldowns[hand] = table
	}
	if !table.Ready(req.Location, now) {
		return false
	}

	table.Schedule(req.Location, now, req.Duration)
	cmd := EncodeRequest(req)
	t.Write(cmd[:])
	return true
}

// NextEligible returns when loc on hand may next fire. The second result is
// false if the location has no entry.
func (d *Dispatcher) NextEligible(hand Hand, loc FeedbackLocation) (time.Time, bool) {
	if hand != Left && hand != Right {
		return time.Time{}, false
	}
	next, ok := d.cooldowns[hand][loc]
	return next, ok
}

// HandStatus describes one glove.
type HandStatus struct {
	Hand         string               `json:"hand"`
	Port         string               `json:"port,omitempty"`
	Open         bool                 `json:"open"`
	NextEligible map[string]time.Time `json:"next_eligible,omitempty"`
}

// Status reports the binding and cooldown state of both gloves.
func (d *Dispatcher) Status() []HandStatus {
	out := make([]HandStatus, 0, 2)
	for _, hand := range Both.Hands() {
		st := HandStatus{Hand: hand.String()}
		if t := d.transports[hand]; t != nil {
			st.Open = t.IsOpen()
			if b, ok := t.(*serialmux.Binding); ok {
				st.Port = b.Path()
			}
		}
		if table := d.cooldowns[hand]; len(table) > 0 {
			st.NextEligible = make(map[string]time.Time, len(table))
			for loc, next := range table {
				st.NextEligible[loc.String()] = next
			}
		}
		out = append(out, st)
	}
	return out
}
