package websocket

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"project-tracker/domain/models"
	"project-tracker/domain/services"
	hub "project-tracker/infrastructure/websocket"
	"project-tracker/pkg/logger"
	"project-tracker/pkg/metrics"
	"project-tracker/pkg/utils"
)

const localsRoom = "ws_room"

// WebSocketHandler feed activity ของโปรเจกต์แบบ realtime
// GET /ws?project=<id>&token=<jwt>
type WebSocketHandler struct {
	hub            *hub.Hub
	userService    services.UserService
	projectService services.ProjectService
	metrics        *metrics.Metrics
}

func NewWebSocketHandler(h *hub.Hub, userService services.UserService, projectService services.ProjectService, m *metrics.Metrics) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            h,
		userService:    userService,
		projectService: projectService,
		metrics:        m,
	}
}

// WebSocketUpgrade ตรวจ token และสิทธิ์ดูโปรเจกต์ก่อน upgrade
// browser ส่ง header ตอน upgrade ไม่ได้ จึงรับ token ทาง query ด้วย
func (h *WebSocketHandler) WebSocketUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	ctx := c.UserContext()

	token := c.Query("token")
	if token == "" {
		token = utils.ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization))
	}
	if token == "" {
		return utils.UnauthorizedResponse(c, "Missing token")
	}

	actor, _, err := h.userService.Authenticate(ctx, token)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	projectID, err := uuid.Parse(c.Query("project"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid project")
	}
	project, err := h.projectService.ViewProject(ctx, actor, projectID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	c.Locals(utils.LocalsUser, actor)
	c.Locals(localsRoom, hub.ProjectRoom(project.ID.String()))
	return c.Next()
}

func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	actor, ok := c.Locals(utils.LocalsUser).(*models.User)
	room, _ := c.Locals(localsRoom).(string)
	if !ok || room == "" {
		c.Close()
		return
	}

	h.hub.Register(c, actor.ID, room)
	if h.metrics != nil {
		h.metrics.WSClients.Inc()
	}
	defer func() {
		h.hub.Unregister(c)
		if h.metrics != nil {
			h.metrics.WSClients.Dec()
		}
	}()

	logger.Debug("WebSocket subscribed", "user_id", actor.ID, "room", room)

	// client ไม่ได้ส่งอะไรมา อ่านไว้เพื่อรู้ว่าปิด connection แล้ว
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket read error", "user_id", actor.ID, "error", err)
			}
			return
		}
	}
}
