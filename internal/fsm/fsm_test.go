package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"xchain-backend/internal/errs"
)

var allStatuses = []Status{StatusCreated, StatusSent, StatusConfirmed, StatusChecked, StatusCanceled}

func TestXinTransitions(t *testing.T) {
	assert.NoError(t, Xin.Transition(StatusCreated, StatusChecked))
	assert.NoError(t, Xin.Transition(StatusCreated, StatusCanceled))

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			if from == StatusCreated && (to == StatusChecked || to == StatusCanceled) {
				continue
			}
			assert.ErrorIs(t, Xin.Transition(from, to), errs.ErrStatusInvalid, "%s->%s", from, to)
		}
	}
}

func TestXoutTransitions(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusCreated, StatusSent}:       true,
		{StatusCreated, StatusCanceled}:   true,
		{StatusSent, StatusConfirmed}:     true,
		{StatusSent, StatusCanceled}:      true,
		{StatusConfirmed, StatusChecked}:  true,
		{StatusConfirmed, StatusCanceled}: true,
	}
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			err := Xout.Transition(from, to)
			if allowed[[2]Status{from, to}] {
				assert.NoError(t, err, "%s->%s", from, to)
			} else {
				assert.ErrorIs(t, err, errs.ErrStatusInvalid, "%s->%s", from, to)
			}
		}
	}
}

func TestTerminalAndSources(t *testing.T) {
	assert.True(t, Xout.IsTerminal(StatusChecked))
	assert.True(t, Xout.IsTerminal(StatusCanceled))
	assert.False(t, Xout.IsTerminal(StatusSent))

	assert.Equal(t, []Status{StatusCreated, StatusSent, StatusConfirmed}, Xout.Sources(StatusCanceled))
	assert.Equal(t, []Status{StatusCreated}, Xin.Sources(StatusChecked))
	assert.Equal(t, "xout", Xout.Name())
}
