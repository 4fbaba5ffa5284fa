// Package rtcmenu implements the interactive serial menu used to inspect and adjust a
// real-time clock: show the time and date, set them, and stop or start the clock.
//
// The menu is idle until the activation key arrives, then lists the numbered choices
// and loops until the user picks the exit entry. Everything is blocking and runs on
// the caller's goroutine.
package rtcmenu

import (
	"errors"
	"fmt"

	"github.com/ajanata/drivers"
	"github.com/ajanata/drivers/console"
	"github.com/ajanata/drivers/ds1302"
)

// Clock is the clock the menu controls. *ds1302.Device implements it.
type Clock interface {
	Time() (ds1302.TimeOfDay, error)
	SetTime(ds1302.TimeOfDay) error
	Date() (ds1302.Date, error)
	SetDate(ds1302.Date) error
	Enable()
	Disable()
}

// Logger receives diagnostic messages. It is satisfied by the serial consoles of most
// boards as well as by log adapters on a host. Errors from Println are ignored: logging
// must never stop the menu.
type Logger interface {
	Println(string) error
}

// Profile selects the set of menu entries.
type Profile uint8

const (
	// ProfileFull offers show, set time, set date, disable, enable and exit, and asks
	// for each number on its own line.
	ProfileFull Profile = iota
	// ProfileCompact offers show time, set time and exit, and reads the time as one
	// "HH MM SS" line.
	ProfileCompact
)

// State is the position of the menu state machine.
type State uint8

const (
	Idle State = iota
	MenuPrompt
	CollectingArgs
	Executing
	Exit
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case MenuPrompt:
		return "menu"
	case CollectingArgs:
		return "collecting"
	case Executing:
		return "executing"
	case Exit:
		return "exit"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

const DefaultActivation = 'm'

type Config struct {
	Profile Profile
	// Activation is the key that opens the menu. Defaults to 'm'.
	Activation byte
	// AcceptZero lets 0 be entered for numeric fields. Otherwise a 0 is treated like
	// an empty line and the field is asked for again.
	AcceptZero bool
	// Log is optional.
	Log Logger
}

const (
	msgBanner      = "\nInitializing device...\nDS1302 RTC Controller Ready\n"
	msgHint        = "Press '%c' for menu items\n"
	msgHeader      = "\n\n----- RTC Control Menu -----\n"
	msgChoice      = "Enter choice (1-%d): "
	msgInvalid     = "Invalid choice! Try again.\n"
	msgExit        = "Exiting menu...\n"
	msgTime        = "Time: %02d:%02d:%02d\n"
	msgDate        = "Date: %02d/%02d/20%02d\n"
	msgBadClock    = "Invalid clock data! Check RTC wiring\n"
	msgTimeSet     = "\r\nTime set successfully!\n"
	msgTimeInvalid = "Invalid time values! Use 24-hour format\n"
	msgDateSet     = "\r\nDate set successfully!\n"
	msgDateInvalid = "Invalid date values!\n"
	msgDisabled    = "Clock disabled (halted)\n"
	msgEnabled     = "Clock enabled (running)\n"
	msgTimeLine    = "Enter time (HH MM SS): "
	msgFormat      = "Invalid format! Use HH MM SS\n"
	promptHour     = "Enter hour (0-23): "
	promptMinute   = "Enter minute (0-59): "
	promptSecond   = "Enter second (0-59): "
	promptDay      = "Enter day (1-31): "
	promptMonth    = "Enter month (1-12): "
	promptYear     = "Enter year (00-99): "
)

// timeLineSize bounds the "HH MM SS" line of the compact profile.
const timeLineSize = 16

type item struct {
	label string
	run   func(m *Menu) error
	exit  bool
}

var fullItems = []item{
	{label: "Show Current Date & Time", run: (*Menu).showDateTime},
	{label: "Set New Time", run: (*Menu).setTimeFields},
	{label: "Set New Date", run: (*Menu).setDateFields},
	{label: "Disable Clock", run: (*Menu).disable},
	{label: "Enable Clock", run: (*Menu).enable},
	{label: "Exit Menu", exit: true},
}

var compactItems = []item{
	{label: "Show Current Time", run: (*Menu).showTime},
	{label: "Set New Time", run: (*Menu).setTimeLine},
	{label: "Exit Menu", exit: true},
}

// session is the state of one pass through the menu, from activation to exit.
type session struct {
	prompt string
	input  *console.LineBuffer
	choice uint8
}

type Menu struct {
	con     *console.Console
	clock   Clock
	cfg     Config
	items   []item
	state   State
	session session
}

// New creates a menu talking on port and controlling clock, configured with defaults.
func New(port drivers.UART, clock Clock) *Menu {
	m := &Menu{
		con:   console.New(port),
		clock: clock,
	}
	m.Configure(Config{})
	return m
}

func (m *Menu) Configure(cfg Config) {
	if cfg.Activation == 0 {
		cfg.Activation = DefaultActivation
	}
	m.cfg = cfg
	switch cfg.Profile {
	case ProfileCompact:
		m.items = compactItems
	default:
		m.items = fullItems
	}
}

// State returns where the state machine currently is.
func (m *Menu) State() State {
	return m.state
}

// Run prints the banner and then serves the menu forever. It only returns when the
// serial port fails.
func (m *Menu) Run() error {
	if err := m.Start(); err != nil {
		return err
	}
	for {
		if err := m.Poll(); err != nil {
			return err
		}
	}
}

// Start prints the startup banner and the activation hint.
func (m *Menu) Start() error {
	if err := m.con.Print(msgBanner); err != nil {
		return fmt.Errorf("rtcmenu: %w", err)
	}
	if err := m.hint(); err != nil {
		return fmt.Errorf("rtcmenu: %w", err)
	}
	return nil
}

// Poll waits for one key while idle. The activation key runs a whole menu session;
// any other key repeats the hint.
func (m *Menu) Poll() error {
	m.setState(Idle)
	ch, err := m.con.ReadByte()
	if err != nil {
		return fmt.Errorf("rtcmenu: %w", err)
	}
	if ch != m.cfg.Activation {
		err = m.hint()
	} else {
		err = m.Session()
	}
	if err != nil {
		return fmt.Errorf("rtcmenu: %w", err)
	}
	return nil
}

// Session shows the menu and handles choices until the exit entry is picked.
func (m *Menu) Session() error {
	m.session = session{}
	m.logf("session start")
	if err := m.showMenu(); err != nil {
		return err
	}
	for {
		n, ok, err := m.con.ReadNumber()
		invalid := errors.Is(err, console.ErrNotNumber)
		if err != nil && !invalid {
			return err
		}
		if !ok && !invalid {
			continue
		}
		if invalid || n < 1 || int(n) > len(m.items) {
			m.logf("invalid choice %d", n)
			if err := m.con.Print(msgInvalid); err != nil {
				return err
			}
			if err := m.showMenu(); err != nil {
				return err
			}
			continue
		}

		m.session.choice = n
		it := m.items[n-1]
		m.logf("choice %d: %s", n, it.label)
		if it.exit {
			m.setState(Exit)
			m.logf("session end")
			return m.con.Print(msgExit)
		}
		if err := it.run(m); err != nil {
			return err
		}
		if err := m.showMenu(); err != nil {
			return err
		}
	}
}

func (m *Menu) hint() error {
	return m.con.Printf(msgHint, m.cfg.Activation)
}

func (m *Menu) showMenu() error {
	m.setState(MenuPrompt)
	if err := m.drain(); err != nil {
		return err
	}
	if err := m.con.Print(msgHeader); err != nil {
		return err
	}
	for i, it := range m.items {
		if err := m.con.Printf("%d. %s\n", i+1, it.label); err != nil {
			return err
		}
	}
	m.session.prompt = fmt.Sprintf(msgChoice, len(m.items))
	return m.con.Print(m.session.prompt)
}

// drain drops keys typed ahead of a prompt.
func (m *Menu) drain() error {
	n, err := m.con.Drain()
	if n > 0 {
		m.logf("dropped %d stale bytes", n)
	}
	return err
}

func (m *Menu) setState(s State) {
	if s != m.state {
		m.logf("state %s -> %s", m.state, s)
	}
	m.state = s
}

func (m *Menu) logf(format string, args ...interface{}) {
	if m.cfg.Log != nil {
		_ = m.cfg.Log.Println(fmt.Sprintf(format, args...))
	}
}
