package rtcmenu

import (
	"errors"

	"github.com/google/shlex"

	"github.com/ajanata/drivers/console"
	"github.com/ajanata/drivers/ds1302"
)

func (m *Menu) showDateTime() error {
	m.setState(Executing)
	d, err := m.clock.Date()
	if err != nil {
		m.logf("date read: %v", err)
		if err := m.con.Print(msgBadClock); err != nil {
			return err
		}
	} else if err := m.con.Printf(msgDate, d.Day, d.Month, d.Year); err != nil {
		return err
	}
	return m.showTime()
}

func (m *Menu) showTime() error {
	m.setState(Executing)
	t, err := m.clock.Time()
	if err != nil {
		m.logf("time read: %v", err)
		return m.con.Print(msgBadClock)
	}
	return m.con.Printf(msgTime, t.Hour, t.Minute, t.Second)
}

func (m *Menu) setTimeFields() error {
	m.setState(CollectingArgs)
	var t ds1302.TimeOfDay
	var err error
	if t.Hour, err = m.field(promptHour); err != nil {
		return err
	}
	if t.Minute, err = m.field(promptMinute); err != nil {
		return err
	}
	if t.Second, err = m.field(promptSecond); err != nil {
		return err
	}
	return m.applyTime(t)
}

func (m *Menu) setDateFields() error {
	m.setState(CollectingArgs)
	var d ds1302.Date
	var err error
	if d.Day, err = m.field(promptDay); err != nil {
		return err
	}
	if d.Month, err = m.field(promptMonth); err != nil {
		return err
	}
	if d.Year, err = m.field(promptYear); err != nil {
		return err
	}

	m.setState(Executing)
	if !d.Valid() {
		m.logf("rejected date %+v", d)
		return m.con.Print(msgDateInvalid)
	}
	if err := m.clock.SetDate(d); err != nil {
		m.logf("set date: %v", err)
		return m.con.Print(msgDateInvalid)
	}
	m.logf("date set to %+v", d)
	return m.con.Print(msgDateSet)
}

// setTimeLine reads the whole time from one line of three numbers.
func (m *Menu) setTimeLine() error {
	m.setState(CollectingArgs)
	if err := m.prompt(msgTimeLine); err != nil {
		return err
	}
	if m.session.input == nil {
		m.session.input = console.NewLineBuffer(timeLineSize)
	}
	if _, err := m.con.ReadLine(m.session.input, nil); err != nil {
		return err
	}
	fields, err := shlex.Split(m.session.input.String())
	if err != nil || len(fields) != 3 {
		m.logf("malformed time %q", m.session.input.String())
		return m.con.Print(msgFormat)
	}
	return m.applyTime(ds1302.TimeOfDay{
		Hour:   console.Atoi(fields[0]),
		Minute: console.Atoi(fields[1]),
		Second: console.Atoi(fields[2]),
	})
}

func (m *Menu) applyTime(t ds1302.TimeOfDay) error {
	m.setState(Executing)
	if !t.Valid() {
		m.logf("rejected time %+v", t)
		return m.con.Print(msgTimeInvalid)
	}
	if err := m.clock.SetTime(t); err != nil {
		m.logf("set time: %v", err)
		return m.con.Print(msgTimeInvalid)
	}
	m.logf("time set to %+v", t)
	return m.con.Print(msgTimeSet)
}

func (m *Menu) disable() error {
	m.setState(Executing)
	m.clock.Disable()
	return m.con.Print(msgDisabled)
}

func (m *Menu) enable() error {
	m.setState(Executing)
	m.clock.Enable()
	return m.con.Print(msgEnabled)
}

// field asks for one number until a usable one is entered. Empty or digitless lines,
// and zero unless AcceptZero is set, ask again without repeating the prompt.
func (m *Menu) field(prompt string) (uint8, error) {
	if err := m.prompt(prompt); err != nil {
		return 0, err
	}
	for {
		n, ok, err := m.con.ReadNumber()
		if err != nil && !errors.Is(err, console.ErrNotNumber) {
			return 0, err
		}
		if ok && (n != 0 || m.cfg.AcceptZero) {
			return n, nil
		}
		m.logf("asking again for %q", prompt)
	}
}

func (m *Menu) prompt(s string) error {
	if err := m.drain(); err != nil {
		return err
	}
	m.session.prompt = s
	return m.con.Print(s)
}
