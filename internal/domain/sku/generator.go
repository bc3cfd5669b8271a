// Package sku genera identificadores de producto únicos y legibles.
//
// Un candidato se compone de los últimos 6 dígitos del timestamp en
// milisegundos más un sufijo aleatorio de 3 dígitos: SKU-XXXXXXXXX.
// La unicidad definitiva la garantiza la constraint UNIQUE de la tabla
// products; el chequeo previo contra el store solo reduce reintentos.
package sku

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/tu-usuario/almacen-api/internal/domain"
)

// Prefix prefijo de todo SKU generado.
const Prefix = "SKU-"

// DefaultMaxAttempts tope de reintentos ante colisiones: el lazo se acota
// para fallar con ErrSKUGenerationExhausted en vez de quedar girando.
const DefaultMaxAttempts = 5

// Store consulta si un SKU ya está en uso.
type Store interface {
	SKUExists(sku string) (bool, error)
}

// Generator produce candidatos de SKU. El reloj y la fuente aleatoria son
// inyectables para poder simular colisiones del componente temporal en tests.
type Generator struct {
	now         func() time.Time
	randInt     func(n int) int
	maxAttempts int
}

// NewGenerator construye el generador con reloj y aleatorio reales.
func NewGenerator() *Generator {
	return &Generator{now: time.Now, randInt: rand.Intn, maxAttempts: DefaultMaxAttempts}
}

// NewGeneratorWithSource construye el generador con dependencias explícitas (tests).
func NewGeneratorWithSource(now func() time.Time, randInt func(n int) int, maxAttempts int) *Generator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Generator{now: now, randInt: randInt, maxAttempts: maxAttempts}
}

// Candidate compone un candidato de SKU sin consultar el store.
func (g *Generator) Candidate() string {
	ts := strconv.FormatInt(g.now().UnixMilli(), 10)
	if len(ts) > 6 {
		ts = ts[len(ts)-6:]
	}
	suffix := g.randInt(1000)
	return Prefix + ts + pad3(suffix)
}

// Generate devuelve un SKU sin colisión conocida contra el store.
// Reintenta hasta maxAttempts candidatos; si todos colisionan retorna
// domain.ErrSKUGenerationExhausted. El chequeo es de solo lectura: no
// reserva nada, por lo que el caller debe reintentar la generación si el
// INSERT posterior reporta violación de unicidad.
func (g *Generator) Generate(store Store) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		candidate := g.Candidate()
		exists, err := store.SKUExists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", domain.ErrSKUGenerationExhausted
}

func pad3(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}
