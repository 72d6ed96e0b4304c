package setup

import (
	"github.com/charmbracelet/bubbles/textinput"
)

// what the wizard collects from the operator
type Answers struct {
	SupabaseURL      string
	AnonKey          string
	ServiceRoleKey   string
	DatabasePassword string
}

// generated values written alongside the answers
type Secrets struct {
	SessionSecret string
	JWTSecret     string
}

type state int

const (
	stateConfirmOverwrite state = iota
	stateAsk
	stateWriting
	stateDone
	stateCancelled
)

type question struct {
	label       string
	placeholder string
	secret      bool
}

type Model struct {
	path    string
	state   state
	inputs  []textinput.Model
	focus   int
	problem string
	err     error
}

// sent once the .env file is on disk
type envWrittenMsg struct{}

type errMsg struct {
	err error
}
