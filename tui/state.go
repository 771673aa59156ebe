package tui

type state int

const (
	promptState state = iota
	respondersState
	errorState
)
