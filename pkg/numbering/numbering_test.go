package numbering_test

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tra18/systeme-gestion-stock/pkg/numbering"
)

// Formato esperado: PREFIJO-AAAAMMDD-XXXXXXXX (8 hex mayúsculas).
var numberPattern = regexp.MustCompile(`^(DEM|CMD)-\d{8}-[0-9A-F]{8}$`)

func fixedClock() time.Time {
	return time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
}

func TestRequestNumber_Formato(t *testing.T) {
	gen := numbering.NewWithClock(fixedClock)
	n := gen.RequestNumber()

	assert.Regexp(t, numberPattern, n, "el número debe seguir el formato PREFIJO-FECHA-SUFIJO")
	assert.True(t, strings.HasPrefix(n, "DEM-20250115-"),
		"el número de demanda debe llevar prefijo DEM y la fecha del reloj inyectado")
}

func TestOrderNumber_Formato(t *testing.T) {
	gen := numbering.NewWithClock(fixedClock)
	n := gen.OrderNumber()

	assert.Regexp(t, numberPattern, n)
	assert.True(t, strings.HasPrefix(n, "CMD-20250115-"),
		"el número de commande debe llevar prefijo CMD")
}

func TestRequestNumber_SufijoAleatorio_NoSeRepite(t *testing.T) {
	gen := numbering.New()
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		n := gen.RequestNumber()
		_, dup := seen[n]
		require.False(t, dup, "dos números consecutivos no deben colisionar: %s", n)
		seen[n] = struct{}{}
	}
}

func TestNumbers_PrefijosDistintos(t *testing.T) {
	gen := numbering.NewWithClock(fixedClock)
	req := gen.RequestNumber()
	ord := gen.OrderNumber()

	assert.NotEqual(t, req[:3], ord[:3], "demanda y commande usan prefijos distintos")
}
