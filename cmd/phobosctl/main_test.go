package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cea-hpc/phobos-dss/pkg/dss"
)

func TestExitCodeMapsKnownKinds(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{dss.NewNotFound(dss.KindMedium, "x"), 2},
		{dss.NewAlreadyExists(dss.KindMedium, "x"), 3},
		{dss.NewInvalid("bad"), 4},
		{dss.NewPermissionDenied(dss.KindMedium, "x", "no"), 5},
		{dss.NewNotLocked(dss.KindMedium, "x"), 6},
		{dss.NewNoDevice(dss.KindMedium, "x"), 7},
		{dss.NewTransport(errors.New("boom")), 8},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, exitCode(c.err))
	}
}

func TestExitCodeDefaultsToOneForUnknownErrors(t *testing.T) {
	assert.Equal(t, 1, exitCode(errors.New("plain")))
}
