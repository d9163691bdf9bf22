package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Deep-1402/cafe/internal/chat"
	"github.com/Deep-1402/cafe/internal/middleware"
	"github.com/Deep-1402/cafe/internal/tenancy"
	"github.com/Deep-1402/cafe/pkg/jwtutil"
	"github.com/Deep-1402/cafe/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is checked by the CORS layer in front of the API.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ChatHandler serves chat history over REST and the realtime relay
// over a websocket.
type ChatHandler struct {
	hub      *chat.Hub
	resolver *tenancy.Resolver
	jwt      *jwtutil.JWTUtil
}

// NewChatHandler wires the chat handlers.
func NewChatHandler(hub *chat.Hub, resolver *tenancy.Resolver, jwt *jwtutil.JWTUtil) *ChatHandler {
	return &ChatHandler{hub: hub, resolver: resolver, jwt: jwt}
}

// ListChats returns the chats the authenticated user participates in.
func (h *ChatHandler) ListChats(c echo.Context) error {
	handle, ok := middleware.HandleFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
	}
	claims, _ := middleware.ClaimsFrom(c)

	store := chat.NewStore(handle.Conn)
	chats, err := store.ChatsFor(c.Request().Context(), claims.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": chats})
}

// ListMessages returns one chat's history, restricted to its
// participants.
func (h *ChatHandler) ListMessages(c echo.Context) error {
	handle, ok := middleware.HandleFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "tenant context required"})
	}
	claims, _ := middleware.ClaimsFrom(c)

	chatID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid chat id"})
	}

	store := chat.NewStore(handle.Conn)
	room, err := store.Get(c.Request().Context(), uint(chatID))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "chat not found"})
	}
	if !room.Involves(claims.UserID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	messages, err := store.Messages(c.Request().Context(), room.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": messages})
}

// ServeWS upgrades the connection and binds it to the relay hub.
// Browsers cannot set headers on websocket dials, so the token rides
// in the query string.
func (h *ChatHandler) ServeWS(c echo.Context) error {
	log := logger.FromEcho(c)

	claims, err := h.jwt.ValidateToken(c.QueryParam("token"))
	if err != nil || claims.Scope != jwtutil.ScopeTenant {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
	}

	key := claims.Subdomain
	if key == "" {
		key = claims.Email
	}
	handle, err := h.resolver.Resolve(c.Request().Context(), key)
	if err != nil {
		code := tenancy.CodeOf(err)
		return c.JSON(tenancy.HTTPStatus(err), echo.Map{"error": err.Error(), "code": code})
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Warn("Websocket upgrade failed", zap.Error(err))
		return nil
	}

	log.Info("Chat client connected",
		zap.Uint("user_id", claims.UserID),
		zap.String("subdomain", handle.Tenant.Subdomain))

	client := chat.NewClient(h.hub, chat.NewStore(handle.Conn), conn, claims.UserID, handle.Tenant.DBName)
	client.Run()
	return nil
}
