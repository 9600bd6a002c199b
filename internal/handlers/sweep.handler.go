package handlers

import (
	"errors"

	"annualreports/internal/app"
	"annualreports/internal/jobs"
	"annualreports/internal/repositories"
	"annualreports/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SweepHandler struct {
	Handler
	sweep       *services.SweepService
	scheduler   *services.SchedulerService
	fileCleanup *services.FileCleanupService
	attempts    repositories.DownloadAttemptRepository
}

func NewSweepHandler(app app.App, router fiber.Router) *SweepHandler {
	log := logger.New("handlers").File("sweep_handler")
	return &SweepHandler{
		sweep:       app.Services.Sweep,
		scheduler:   app.Services.Scheduler,
		fileCleanup: app.Services.FileCleanup,
		attempts:    app.Repos.DownloadAttempt,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *SweepHandler) Register() {
	h.router.Get("/runs/latest", h.GetLatestRun)
	h.router.Post("/runs", h.TriggerRun)
	h.router.Get("/attempts", h.ListAttempts)
	h.router.Get("/reports", h.ListReports)
}

func (h *SweepHandler) GetLatestRun(c *fiber.Ctx) error {
	summary := h.sweep.LastSummary()
	if summary == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No sweep has finished yet",
		})
	}

	return c.JSON(fiber.Map{
		"summary":  summary,
		"requests": summary.Requests(),
		"nextRun":  h.scheduler.GetNextRunTime(),
	})
}

func (h *SweepHandler) TriggerRun(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("TriggerRun")

	if h.sweep.Running() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": services.ErrSweepInProgress.Error(),
		})
	}

	if err := h.scheduler.TriggerJobByName(jobs.AnnualReportSweepJobName); err != nil {
		_ = log.Err("Failed to trigger sweep", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to trigger sweep",
		})
	}

	log.Info("Sweep triggered manually")
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"status": "accepted",
	})
}

// ListAttempts reads the ledger by run id or by company name.
func (h *SweepHandler) ListAttempts(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("ListAttempts")

	if h.attempts == nil || !h.attempts.Enabled() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": repositories.ErrLedgerDisabled.Error(),
		})
	}

	company := c.Query("company")
	runParam := c.Query("run")

	var (
		result any
		err    error
	)
	switch {
	case runParam != "":
		runID, parseErr := uuid.Parse(runParam)
		if parseErr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "run must be a UUID",
			})
		}
		result, err = h.attempts.ListByRun(c.UserContext(), runID)
	case company != "":
		result, err = h.attempts.ListByCompany(c.UserContext(), company, c.QueryInt("limit", 0))
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "company or run query parameter is required",
		})
	}

	if errors.Is(err, repositories.ErrLedgerDisabled) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		_ = log.Err("Failed to list attempts", err, "company", company, "run", runParam)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list attempts",
		})
	}

	return c.JSON(fiber.Map{
		"attempts": result,
	})
}

func (h *SweepHandler) ListReports(c *fiber.Ctx) error {
	log := h.log.TraceFromContext(c.UserContext()).Function("ListReports")

	reports, err := h.fileCleanup.ListStoredReports(c.UserContext())
	if err != nil {
		_ = log.Err("Failed to list stored reports", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list stored reports",
		})
	}

	company := c.Query("company")
	if company != "" {
		filtered := reports[:0]
		for _, report := range reports {
			if report.Company == company {
				filtered = append(filtered, report)
			}
		}
		reports = filtered
	}

	return c.JSON(fiber.Map{
		"reports": reports,
		"count":   len(reports),
	})
}
