package logger_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/almacen-api/pkg/logger"
)

func TestNew_NivelesConocidos(t *testing.T) {
	casos := []struct {
		nivel    string
		esperado zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"WARN", zerolog.WarnLevel}, // insensible a mayúsculas
	}
	for _, tc := range casos {
		t.Run(tc.nivel, func(t *testing.T) {
			l := logger.New(logger.Config{Service: "almacen-api", Env: "production", Level: tc.nivel})
			assert.Equal(t, tc.esperado, l.Zerolog().GetLevel())
		})
	}
}

// Un nivel desconocido o vacío no debe tumbar el arranque: cae a info.
func TestNew_NivelDesconocidoCaeAInfo(t *testing.T) {
	l := logger.New(logger.Config{Service: "almacen-api", Env: "production", Level: "verboso"})
	assert.Equal(t, zerolog.InfoLevel, l.Zerolog().GetLevel())

	l = logger.New(logger.Config{Service: "almacen-api", Env: "production"})
	assert.Equal(t, zerolog.InfoLevel, l.Zerolog().GetLevel())
}

func TestComponent_ConservaElNivel(t *testing.T) {
	l := logger.New(logger.Config{Service: "almacen-api", Env: "production", Level: "warn"})
	sub := l.Component("cache")
	assert.Equal(t, zerolog.WarnLevel, sub.Zerolog().GetLevel())
}
