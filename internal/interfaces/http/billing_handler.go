package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Merenda-api/internal/application/dto"
	"github.com/jhoicas/Merenda-api/pkg/logger"
)

// BillingService generación y lectura de faturamentos.
type BillingService interface {
	Preview(ctx context.Context, tenantID, orderID string) (*dto.BillingPreview, error)
	Generate(ctx context.Context, tenantID, userID, orderID, observations string) (*dto.GenerateBillingResponse, error)
	GetBilling(ctx context.Context, tenantID, billingID string) (*dto.BillingResponse, error)
}

// ConsumptionService registro y estorno de consumo.
type ConsumptionService interface {
	RegisterAll(ctx context.Context, tenantID, userID, billingID string) (*dto.BillingResponse, error)
	ReverseAll(ctx context.Context, tenantID, userID, billingID string) (*dto.BillingResponse, error)
	RegisterItem(ctx context.Context, tenantID, userID, billingID, itemID string) (*dto.BillingResponse, error)
	ReverseItem(ctx context.Context, tenantID, userID, billingID, itemID string) (*dto.BillingResponse, error)
	ListMovements(ctx context.Context, tenantID, balanceID string, page dto.PageRequest) (*dto.MovementListResponse, error)
}

// ModalityRemovalService retiro de una modalidad con redistribución.
type ModalityRemovalService interface {
	RemoveModalityItems(ctx context.Context, tenantID, userID, billingID, contractID, modalityID string) (*dto.RemoveModalityResponse, error)
}

// BillingHandler endpoints del motor de faturamento (protegido).
type BillingHandler struct {
	billing     BillingService
	consumption ConsumptionService
	removal     ModalityRemovalService
	log         *logger.Logger
}

// NewBillingHandler construye el handler.
func NewBillingHandler(b BillingService, c ConsumptionService, r ModalityRemovalService, log *logger.Logger) *BillingHandler {
	return &BillingHandler{billing: b, consumption: c, removal: r, log: log.Component("http")}
}

// pathID lee y valida un UUID de la ruta.
func pathID(c *fiber.Ctx, name string) (string, bool) {
	id := c.Params(name)
	return id, validUUID(id)
}

// Preview godoc
// @Summary      Previsualizar el faturamento de un pedido
// @Description  Reparte cada ítem del pedido entre las modalidades por repasse sin persistir nada. Los ítems sin saldo suficiente aparecen en alerts.
// @Tags         billing
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del pedido (UUID)"
// @Success      200  {object}  dto.BillingPreview
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/billing-preview [get]
func (h *BillingHandler) Preview(c *fiber.Ctx) error {
	orderID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id de pedido inválido")
	}
	out, err := h.billing.Preview(c.UserContext(), GetTenantID(c), orderID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Generate godoc
// @Summary      Generar el faturamento de un pedido
// @Description  Bloquea los saldos, revalida el reparto y persiste el faturamento con número consecutivo por año. No debita saldo.
// @Tags         billing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true   "ID del pedido (UUID)"
// @Param        body  body      dto.GenerateBillingRequest  false  "observations"
// @Success      201   {object}  dto.GenerateBillingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "DUPLICATE_BILLING, NO_BILLABLE_ITEMS o INSUFFICIENT_BALANCE"
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/billing [post]
func (h *BillingHandler) Generate(c *fiber.Ctx) error {
	orderID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id de pedido inválido")
	}
	var in dto.GenerateBillingRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "INVALID_BODY", "cuerpo inválido")
		}
	}
	if err := validate.Struct(in); err != nil {
		return badRequest(c, "VALIDATION", validationMessage(err))
	}
	out, err := h.billing.Generate(c.UserContext(), GetTenantID(c), GetUserID(c), orderID, in.Observations)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener un faturamento con sus ítems
// @Tags         billing
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del faturamento (UUID)"
// @Success      200  {object}  dto.BillingResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/billings/{id} [get]
func (h *BillingHandler) GetByID(c *fiber.Ctx) error {
	billingID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id de faturamento inválido")
	}
	out, err := h.billing.GetBilling(c.UserContext(), GetTenantID(c), billingID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// RegisterAll godoc
// @Summary      Registrar el consumo de todo el faturamento
// @Description  Debita el saldo de cada ítem pendiente. Si un saldo no alcanza no se debita ninguno.
// @Tags         consumption
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del faturamento (UUID)"
// @Success      200  {object}  dto.BillingResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "ALREADY_CONSUMED o INSUFFICIENT_BALANCE"
// @Router       /api/billings/{id}/consumption [post]
func (h *BillingHandler) RegisterAll(c *fiber.Ctx) error {
	return h.changeAll(c, h.consumption.RegisterAll)
}

// ReverseAll godoc
// @Summary      Estornar el consumo de todo el faturamento
// @Tags         consumption
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del faturamento (UUID)"
// @Success      200  {object}  dto.BillingResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "NOT_REGISTERED"
// @Router       /api/billings/{id}/consumption [delete]
func (h *BillingHandler) ReverseAll(c *fiber.Ctx) error {
	return h.changeAll(c, h.consumption.ReverseAll)
}

func (h *BillingHandler) changeAll(c *fiber.Ctx, fn func(ctx context.Context, tenantID, userID, billingID string) (*dto.BillingResponse, error)) error {
	billingID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id de faturamento inválido")
	}
	out, err := fn(c.UserContext(), GetTenantID(c), GetUserID(c), billingID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// RegisterItem godoc
// @Summary      Registrar el consumo de un ítem
// @Tags         consumption
// @Security     Bearer
// @Produce      json
// @Param        id      path      string  true  "ID del faturamento (UUID)"
// @Param        itemId  path      string  true  "ID del ítem (UUID)"
// @Success      200     {object}  dto.BillingResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse  "ALREADY_CONSUMED o INSUFFICIENT_BALANCE"
// @Router       /api/billings/{id}/items/{itemId}/consumption [post]
func (h *BillingHandler) RegisterItem(c *fiber.Ctx) error {
	return h.changeItem(c, h.consumption.RegisterItem)
}

// ReverseItem godoc
// @Summary      Estornar el consumo de un ítem
// @Tags         consumption
// @Security     Bearer
// @Produce      json
// @Param        id      path      string  true  "ID del faturamento (UUID)"
// @Param        itemId  path      string  true  "ID del ítem (UUID)"
// @Success      200     {object}  dto.BillingResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse  "NOT_REGISTERED"
// @Router       /api/billings/{id}/items/{itemId}/consumption [delete]
func (h *BillingHandler) ReverseItem(c *fiber.Ctx) error {
	return h.changeItem(c, h.consumption.ReverseItem)
}

func (h *BillingHandler) changeItem(c *fiber.Ctx, fn func(ctx context.Context, tenantID, userID, billingID, itemID string) (*dto.BillingResponse, error)) error {
	billingID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id de faturamento inválido")
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return badRequest(c, "INVALID_ID", "id de ítem inválido")
	}
	out, err := fn(c.UserContext(), GetTenantID(c), GetUserID(c), billingID, itemID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// RemoveModality godoc
// @Summary      Quitar una modalidad del faturamento
// @Description  Elimina los ítems de la modalidad en el contrato y reparte su cantidad entre las demás modalidades del mismo producto. Ajusta saldos si el consumo estaba registrado.
// @Tags         billing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                     true  "ID del faturamento (UUID)"
// @Param        body  body      dto.RemoveModalityRequest  true  "contract_id, modality_id"
// @Success      200   {object}  dto.RemoveModalityResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse  "NOT_FOUND o MODALITY_NOT_FOUND"
// @Failure      409   {object}  dto.ErrorResponse  "NO_REDISTRIBUTION_TARGET o INSUFFICIENT_BALANCE"
// @Router       /api/billings/{id}/remove-modality [post]
func (h *BillingHandler) RemoveModality(c *fiber.Ctx) error {
	billingID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id de faturamento inválido")
	}
	var in dto.RemoveModalityRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if err := validate.Struct(in); err != nil {
		return badRequest(c, "VALIDATION", validationMessage(err))
	}
	out, err := h.removal.RemoveModalityItems(c.UserContext(), GetTenantID(c), GetUserID(c), billingID, in.ContractID, in.ModalityID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Historial de consumo de un saldo
// @Tags         consumption
// @Security     Bearer
// @Produce      json
// @Param        id      path      string  true   "ID del saldo (UUID)"
// @Param        limit   query     int     false  "1-100, por defecto 20"
// @Param        offset  query     int     false  "desplazamiento"
// @Success      200     {object}  dto.MovementListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Router       /api/balances/{id}/movements [get]
func (h *BillingHandler) ListMovements(c *fiber.Ctx) error {
	balanceID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id de saldo inválido")
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetros de paginación inválidos")
	}
	page.DefaultPage()
	if err := validate.Struct(page); err != nil {
		return badRequest(c, "VALIDATION", validationMessage(err))
	}
	out, err := h.consumption.ListMovements(c.UserContext(), GetTenantID(c), balanceID, page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
