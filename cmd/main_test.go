package main

import (
	"encoding/base64"
	"testing"

	"github.com/mansoorceksport/gymgraph/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestOTLPHeaders(t *testing.T) {
	assert.Nil(t, otlpHeaders(config.OTELConfig{}))

	h := otlpHeaders(config.OTELConfig{InstanceID: "123", Token: "tok"})
	assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte("123:tok")), h["Authorization"])
}
