package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-api/internal/application/inventory"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testUserID  = "00000000-0000-0000-0000-000000000001"
	otherUserID = "00000000-0000-0000-0000-000000000099"
	productID   = "11111111-1111-1111-1111-111111111111"
)

func testProduct(currentStock, minStock int) *entity.Product {
	return &entity.Product{
		ID:           productID,
		SKU:          "SKU-123456001",
		Name:         "Tornillo 3/8",
		MinStock:     minStock,
		CurrentStock: currentStock,
		UserID:       testUserID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// newLedger arma el motor con los fakes y devuelve también los repos para
// inspeccionar el estado resultante.
func newLedger(product *entity.Product) (*inventory.StockLedger, *fakeTxRunner, *fakeInvalidator) {
	tx := &fakeTxRunner{
		products:  newFakeProductRepo(product),
		movements: newFakeMovementRepo(),
		alerts:    newFakeAlertRepo(),
	}
	cache := &fakeInvalidator{}
	ledger := inventory.NewStockLedger(tx, inventory.NewAlertEvaluator(), cache)
	return ledger, tx, cache
}

func inbound(quantity int) inventory.MovementInput {
	return inventory.MovementInput{
		ProductID: productID,
		Type:      entity.MovementTypeInbound,
		Quantity:  quantity,
		Reason:    "compra",
		UserID:    testUserID,
	}
}

func outbound(quantity int) inventory.MovementInput {
	return inventory.MovementInput{
		ProductID: productID,
		Type:      entity.MovementTypeOutbound,
		Quantity:  quantity,
		Reason:    "venta",
		UserID:    testUserID,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplyMovement — deltas y guard de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_EntradaSumaStock(t *testing.T) {
	ledger, tx, cache := newLedger(testProduct(10, 5))

	result, err := ledger.ApplyMovement(context.Background(), inbound(15))
	require.NoError(t, err)

	assert.Equal(t, 10, result.PreviousStock)
	assert.Equal(t, 25, result.CurrentStock, "INBOUND debe sumar la cantidad")
	assert.Equal(t, entity.MovementTypeInbound, result.Movement.Type)

	p, _ := tx.products.GetByID(productID)
	assert.Equal(t, 25, p.CurrentStock, "el stock persistido debe reflejar el delta")
	assert.Len(t, tx.movements.movements, 1, "el movimiento debe quedar persistido")
	assert.Equal(t, []string{productID}, cache.invalidated,
		"toda escritura de stock debe invalidar el caché del producto")
}

// Ida y vuelta: una entrada seguida de una salida por la misma cantidad
// deja el stock donde empezó.
func TestApplyMovement_EntradaYSalidaRestauranStock(t *testing.T) {
	ledger, tx, _ := newLedger(testProduct(10, 5))

	_, err := ledger.ApplyMovement(context.Background(), inbound(6)) // stock 16
	require.NoError(t, err)
	_, err = ledger.ApplyMovement(context.Background(), outbound(6)) // stock 10
	require.NoError(t, err)

	p, _ := tx.products.GetByID(productID)
	assert.Equal(t, 10, p.CurrentStock)
	assert.Len(t, tx.movements.movements, 2, "ambos movimientos quedan en el historial")
}

func TestApplyMovement_SalidaRestaStock(t *testing.T) {
	ledger, tx, _ := newLedger(testProduct(10, 5))

	result, err := ledger.ApplyMovement(context.Background(), outbound(3))
	require.NoError(t, err)

	assert.Equal(t, 7, result.CurrentStock, "OUTBOUND debe restar la cantidad")

	p, _ := tx.products.GetByID(productID)
	assert.Equal(t, 7, p.CurrentStock)
}

// Salida que dejaría el stock en exactamente cero: también se rechaza.
// El guard es newStock <= 0, no newStock < 0.
func TestApplyMovement_SalidaHastaCeroRechazada(t *testing.T) {
	ledger, tx, cache := newLedger(testProduct(10, 5))

	_, err := ledger.ApplyMovement(context.Background(), outbound(10))

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient, "agotar el stock exacto debe rechazarse")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, insufficient.CurrentStock)
	assert.Equal(t, 10, insufficient.Requested)

	// Nada persistido: ni movimiento, ni stock, ni alerta, ni invalidación.
	p, _ := tx.products.GetByID(productID)
	assert.Equal(t, 10, p.CurrentStock, "el stock no debe cambiar en un rechazo")
	assert.Empty(t, tx.movements.movements)
	assert.Equal(t, 0, tx.alerts.activeAlerts(productID))
	assert.Empty(t, cache.invalidated)
}

func TestApplyMovement_SalidaMayorAlStockRechazada(t *testing.T) {
	ledger, _, _ := newLedger(testProduct(4, 2))

	_, err := ledger.ApplyMovement(context.Background(), outbound(9))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestApplyMovement_SalidaDejandoUnaUnidadPermitida(t *testing.T) {
	ledger, _, _ := newLedger(testProduct(10, 5))

	result, err := ledger.ApplyMovement(context.Background(), outbound(9))
	require.NoError(t, err, "dejar una unidad es el mínimo aceptado")
	assert.Equal(t, 1, result.CurrentStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplyMovement — validación y scoping
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_ValidacionDeEntrada(t *testing.T) {
	ledger, _, _ := newLedger(testProduct(10, 5))

	casos := []struct {
		nombre string
		input  inventory.MovementInput
	}{
		{"cantidad cero", inventory.MovementInput{ProductID: productID, Type: "INBOUND", Quantity: 0, Reason: "x", UserID: testUserID}},
		{"cantidad negativa", inventory.MovementInput{ProductID: productID, Type: "INBOUND", Quantity: -5, Reason: "x", UserID: testUserID}},
		{"tipo desconocido", inventory.MovementInput{ProductID: productID, Type: "TRANSFER", Quantity: 1, Reason: "x", UserID: testUserID}},
		{"sin razón", inventory.MovementInput{ProductID: productID, Type: "INBOUND", Quantity: 1, UserID: testUserID}},
		{"sin producto", inventory.MovementInput{Type: "INBOUND", Quantity: 1, Reason: "x", UserID: testUserID}},
	}
	for _, tc := range casos {
		t.Run(tc.nombre, func(t *testing.T) {
			_, err := ledger.ApplyMovement(context.Background(), tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestApplyMovement_ProductoInexistente(t *testing.T) {
	ledger, _, _ := newLedger(testProduct(10, 5))

	in := inbound(1)
	in.ProductID = "22222222-2222-2222-2222-222222222222"
	_, err := ledger.ApplyMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// El producto de otro usuario responde igual que uno inexistente: la
// existencia no se filtra por el límite de propiedad.
func TestApplyMovement_ProductoDeOtroUsuario(t *testing.T) {
	ledger, _, _ := newLedger(testProduct(10, 5))

	in := inbound(1)
	in.UserID = otherUserID
	_, err := ledger.ApplyMovement(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"recurso ajeno debe ser indistinguible de inexistente")
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplyMovement — ciclo de alertas acoplado al movimiento
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyMovement_SalidaBajoUmbralCreaAlerta(t *testing.T) {
	ledger, tx, _ := newLedger(testProduct(10, 5))

	// 10 - 7 = 3 < 5 → alerta
	_, err := ledger.ApplyMovement(context.Background(), outbound(7))
	require.NoError(t, err)

	assert.Equal(t, 1, tx.alerts.activeAlerts(productID),
		"cruzar el umbral hacia abajo debe crear una alerta activa")
}

func TestApplyMovement_SegundaSalidaBajoUmbralNoDuplicaAlerta(t *testing.T) {
	ledger, tx, _ := newLedger(testProduct(10, 5))

	_, err := ledger.ApplyMovement(context.Background(), outbound(7)) // stock 3
	require.NoError(t, err)
	_, err = ledger.ApplyMovement(context.Background(), outbound(1)) // stock 2
	require.NoError(t, err)

	assert.Equal(t, 1, tx.alerts.activeAlerts(productID),
		"seguir bajo umbral no debe crear una segunda alerta")
}

func TestApplyMovement_EntradaSobreUmbralResuelveAlerta(t *testing.T) {
	ledger, tx, _ := newLedger(testProduct(10, 5))

	_, err := ledger.ApplyMovement(context.Background(), outbound(7)) // stock 3, alerta
	require.NoError(t, err)
	_, err = ledger.ApplyMovement(context.Background(), inbound(10)) // stock 13
	require.NoError(t, err)

	assert.Equal(t, 0, tx.alerts.activeAlerts(productID),
		"volver al umbral o sobre él debe resolver la alerta")
	// La alerta resuelta se conserva como histórico, no se borra.
	assert.Len(t, tx.alerts.alerts, 1)
	for _, a := range tx.alerts.alerts {
		assert.True(t, a.IsResolved)
		assert.NotNil(t, a.ResolvedAt)
	}
}

// Quedar exactamente en el umbral resuelve: la condición de alerta es
// estrictamente currentStock < minStock.
func TestApplyMovement_StockIgualAlUmbralResuelve(t *testing.T) {
	ledger, tx, _ := newLedger(testProduct(10, 5))

	_, err := ledger.ApplyMovement(context.Background(), outbound(7)) // stock 3, alerta
	require.NoError(t, err)
	_, err = ledger.ApplyMovement(context.Background(), inbound(2)) // stock 5 == min
	require.NoError(t, err)

	assert.Equal(t, 0, tx.alerts.activeAlerts(productID))
}

// ──────────────────────────────────────────────────────────────────────────────
// ReverseMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestReverseMovement_RestauraStockDeUnaSalida(t *testing.T) {
	ledger, tx, _ := newLedger(testProduct(10, 5))

	result, err := ledger.ApplyMovement(context.Background(), outbound(4)) // stock 6
	require.NoError(t, err)

	newStock, err := ledger.ReverseMovement(context.Background(), result.Movement.ID, testUserID)
	require.NoError(t, err)

	assert.Equal(t, 10, newStock, "revertir una salida debe devolver las unidades")
	p, _ := tx.products.GetByID(productID)
	assert.Equal(t, 10, p.CurrentStock)
	assert.Empty(t, tx.movements.movements, "el movimiento revertido debe eliminarse")
}

func TestReverseMovement_RestauraStockDeUnaEntrada(t *testing.T) {
	ledger, tx, _ := newLedger(testProduct(10, 5))

	result, err := ledger.ApplyMovement(context.Background(), inbound(4)) // stock 14
	require.NoError(t, err)

	newStock, err := ledger.ReverseMovement(context.Background(), result.Movement.ID, testUserID)
	require.NoError(t, err)

	assert.Equal(t, 10, newStock, "revertir una entrada debe restar las unidades")
	p, _ := tx.products.GetByID(productID)
	assert.Equal(t, 10, p.CurrentStock)
}

// Revertir una entrada puede dejar el stock bajo umbral: la reversión
// reevalúa la alerta igual que un movimiento directo.
func TestReverseMovement_ReevaluaAlertaAlCaerBajoUmbral(t *testing.T) {
	ledger, tx, _ := newLedger(testProduct(3, 5))

	// Entrada que saca al producto del umbral y resuelve la alerta previa.
	_, err := ledger.ApplyMovement(context.Background(), outbound(1)) // stock 2, alerta
	require.NoError(t, err)
	result, err := ledger.ApplyMovement(context.Background(), inbound(10)) // stock 12, resuelta
	require.NoError(t, err)
	require.Equal(t, 0, tx.alerts.activeAlerts(productID))

	// Revertir la entrada vuelve a 2 < 5 → nueva alerta activa.
	newStock, err := ledger.ReverseMovement(context.Background(), result.Movement.ID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, 2, newStock)
	assert.Equal(t, 1, tx.alerts.activeAlerts(productID),
		"la reversión debe recrear la alerta si deja el stock bajo umbral")
}

func TestReverseMovement_ReevaluaAlertaAlSubirSobreUmbral(t *testing.T) {
	ledger, tx, _ := newLedger(testProduct(10, 5))

	result, err := ledger.ApplyMovement(context.Background(), outbound(7)) // stock 3, alerta
	require.NoError(t, err)
	require.Equal(t, 1, tx.alerts.activeAlerts(productID))

	// Revertir la salida vuelve a 10 >= 5 → la alerta se resuelve.
	newStock, err := ledger.ReverseMovement(context.Background(), result.Movement.ID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, 10, newStock)
	assert.Equal(t, 0, tx.alerts.activeAlerts(productID),
		"la reversión debe resolver la alerta si el stock vuelve sobre el umbral")
}

func TestReverseMovement_MovimientoInexistente(t *testing.T) {
	ledger, _, _ := newLedger(testProduct(10, 5))

	_, err := ledger.ReverseMovement(context.Background(), "no-existe", testUserID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReverseMovement_MovimientoDeOtroUsuario(t *testing.T) {
	ledger, _, _ := newLedger(testProduct(10, 5))

	result, err := ledger.ApplyMovement(context.Background(), outbound(2))
	require.NoError(t, err)

	_, err = ledger.ReverseMovement(context.Background(), result.Movement.ID, otherUserID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Dos reversiones del mismo movimiento: la que pierde la carrera leyó el
// movimiento antes del bloqueo de fila, pero su DELETE ya no encuentra la
// fila y toda la operación falla sin aplicar el delta una segunda vez.
func TestReverseMovement_MovimientoYaRevertidoPorOtraTx(t *testing.T) {
	ledger, tx, cache := newLedger(testProduct(10, 5))

	result, err := ledger.ApplyMovement(context.Background(), outbound(4)) // stock 6
	require.NoError(t, err)
	cache.invalidated = nil

	// La otra transacción confirmó el borrado entre la lectura y el bloqueo.
	tx.movements.deleteErr = domain.ErrNotFound

	_, err = ledger.ReverseMovement(context.Background(), result.Movement.ID, testUserID)
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"la segunda reversión debe fallar, no reportar éxito")

	p, _ := tx.products.GetByID(productID)
	assert.Equal(t, 6, p.CurrentStock, "el delta no debe aplicarse dos veces")
	assert.Empty(t, cache.invalidated)
}

// La reversión de una entrada no aplica el guard de piso: deshace una
// operación que fue válida aunque el resultado quede en cero o negativo.
func TestReverseMovement_SinGuardDePiso(t *testing.T) {
	ledger, tx, _ := newLedger(testProduct(10, 5))

	result, err := ledger.ApplyMovement(context.Background(), inbound(20)) // stock 30
	require.NoError(t, err)
	// Otra salida consume casi todo.
	_, err = ledger.ApplyMovement(context.Background(), outbound(25)) // stock 5
	require.NoError(t, err)

	newStock, err := ledger.ReverseMovement(context.Background(), result.Movement.ID, testUserID)
	require.NoError(t, err, "la reversión no valida stock resultante")
	assert.Equal(t, -15, newStock)

	p, _ := tx.products.GetByID(productID)
	assert.Equal(t, -15, p.CurrentStock)
}
