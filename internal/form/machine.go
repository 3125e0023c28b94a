package form

// machine holds the idle/submitting/error lifecycle shared by every form.
type machine struct {
	message string
	state   State
}

// edit guards a field change. Edits are rejected while submitting and
// clear a previous failure otherwise.
func (m *machine) edit(apply func()) error {
	if m.state == StateSubmitting {
		return ErrBusy
	}
	apply()
	if m.state == StateError {
		m.state = StateIdle
		m.message = ""
	}
	return nil
}

func (m *machine) fail(err error) {
	m.state = StateError
	m.message = ErrorMessage(err)
}

func (m *machine) begin() error {
	if m.state == StateSubmitting {
		return ErrBusy
	}
	return nil
}

func (m *machine) finish(err error) {
	if m.state != StateSubmitting {
		return
	}
	if err != nil {
		m.fail(err)
		return
	}
	m.state = StateIdle
	m.message = ""
}

// State reports the current lifecycle state.
func (m *machine) State() State { return m.state }

// Message returns the error shown to the user, empty unless in StateError.
func (m *machine) Message() string { return m.message }

// Submitting reports whether inputs should be disabled.
func (m *machine) Submitting() bool { return m.state == StateSubmitting }
