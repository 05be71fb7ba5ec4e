// services/portal.go
package services

import (
	"log"

	"broker-intake-system/models"

	"github.com/gofiber/fiber/v2"
)

const (
	NotFoundInline   = "inline"
	NotFoundRedirect = "redirect"

	RegisterInterstitial = "interstitial"
	RegisterRedirect     = "redirect"
)

// RouterConfig captures the two behaviors that differ between deployed
// variants of this portal: what an unknown broker URL does, and whether
// the register action shows a confirmation interstitial before leaving.
type RouterConfig struct {
	NotFoundPolicy string // inline (default) | redirect
	RegisterMode   string // interstitial (default) | redirect
}

// PortalService is the HTTP surface: broker resolution, navigation
// policy, and the intake endpoints.
type PortalService struct {
	Directory *BrokerDirectory
	Intake    *IntakeService
	Router    RouterConfig
}

func NewPortalService(directory *BrokerDirectory, intake *IntakeService, router RouterConfig) *PortalService {
	if router.NotFoundPolicy == "" {
		router.NotFoundPolicy = NotFoundInline
	}
	if router.RegisterMode == "" {
		router.RegisterMode = RegisterInterstitial
	}
	return &PortalService{Directory: directory, Intake: intake, Router: router}
}

// ListBrokers serves the landing screen's broker list.
func (p *PortalService) ListBrokers(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"brokers": p.Directory.All()})
}

// GetBroker serves a broker profile page payload.
func (p *PortalService) GetBroker(c *fiber.Ctx) error {
	broker, ok := p.Directory.Lookup(c.Params("brokerId"))
	if !ok {
		return p.brokerNotFound(c)
	}
	return c.JSON(broker)
}

// GetAction bootstraps an intake screen: the prefilled form for deposit
// and withdraw, the redirect/interstitial branch for register, and a
// redirect back to the profile for anything else.
func (p *PortalService) GetAction(c *fiber.Ctx) error {
	broker, ok := p.Directory.Lookup(c.Params("brokerId"))
	if !ok {
		return p.brokerNotFound(c)
	}

	action := c.Params("action")
	if !models.IsValidAction(action) {
		// Unknown action is a navigation mistake, not an error: bounce to the profile.
		return c.Redirect("/"+broker.ID, fiber.StatusFound)
	}

	if action == models.ActionRegister {
		return p.register(c, broker)
	}

	prefill := p.Intake.Prefill(c.Context(), deviceID(c))
	return c.JSON(fiber.Map{
		"broker":       broker,
		"action":       action,
		"country_code": p.Intake.Config.Display.CountryCode,
		"prefill":      prefill,
	})
}

// SubmitAction runs a submit attempt for deposit/withdraw.
func (p *PortalService) SubmitAction(c *fiber.Ctx) error {
	broker, ok := p.Directory.Lookup(c.Params("brokerId"))
	if !ok {
		return p.brokerNotFound(c)
	}

	action := c.Params("action")
	if !models.IsValidAction(action) {
		return c.Redirect("/"+broker.ID, fiber.StatusFound)
	}
	if action == models.ActionRegister {
		// Register never enters the form workflow.
		return p.register(c, broker)
	}

	var draft models.TransactionDraft
	if err := c.BodyParser(&draft); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	sub, errs := p.Intake.Submit(c.Context(), deviceID(c), broker, action, draft)
	if len(errs) > 0 {
		// Stay on the form; each reason is surfaced next to its field.
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": errs})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"submission_id": sub.Key,
		"state":         sub.State,
	})
}

// GetSubmission reports workflow state; once successful it carries the
// identifier and the hand-off link for the success screen.
func (p *PortalService) GetSubmission(c *fiber.Ctx) error {
	sub, ok := p.Intake.Get(c.Params("key"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "submission not found"})
	}

	if sub.State != StateSuccess {
		return c.JSON(fiber.Map{"submission_id": sub.Key, "state": sub.State})
	}

	return c.JSON(fiber.Map{
		"submission_id":  sub.Key,
		"state":          sub.State,
		"transaction_id": sub.Record.TransactionID,
		"type":           sub.Record.Type,
		"broker_id":      sub.Record.BrokerID,
		"amount":         sub.Record.Draft.Amount,
		"whatsapp_url":   p.Intake.HandoffLink(sub),
		"back_url":       "/" + sub.Record.BrokerID,
	})
}

func (p *PortalService) register(c *fiber.Ctx, broker *models.Broker) error {
	if broker.ReferralLink == "" {
		log.Printf("⚠️ [PORTAL] Register requested for %s but no referral link configured", broker.ID)
		return c.Redirect("/"+broker.ID, fiber.StatusFound)
	}

	if p.Router.RegisterMode == RegisterRedirect {
		return c.Redirect(broker.ReferralLink, fiber.StatusFound)
	}

	// Interstitial variant: confirmation screen offering continue/cancel.
	return c.JSON(fiber.Map{
		"screen":       "register_interstitial",
		"broker":       broker,
		"continue_url": broker.ReferralLink,
		"cancel_url":   "/" + broker.ID,
	})
}

func (p *PortalService) brokerNotFound(c *fiber.Ctx) error {
	if p.Router.NotFoundPolicy == NotFoundRedirect {
		return c.Redirect("/", fiber.StatusFound)
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "broker not found"})
}

func deviceID(c *fiber.Ctx) string {
	if id, ok := c.Locals("device_id").(string); ok {
		return id
	}
	return ""
}
