package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/nikhilv/ai-chat-relay/internal/models"
	"github.com/nikhilv/ai-chat-relay/internal/store"
)

// HistoryWindow caps how many prior exchanges are fed to the model.
const HistoryWindow = 10

// UserStore defines the interface for user persistence.
type UserStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, id, email, name, role string) (*models.User, error)
}

// ChatStore defines the interface for chat persistence.
type ChatStore interface {
	CreateChat(ctx context.Context, userID, message, reply string) (*models.Chat, error)
	RecentChats(ctx context.Context, userID string, limit int) ([]models.Chat, error)
	ChatsByUser(ctx context.Context, userID string) ([]models.HistoryItem, error)
}

// Directory is the messaging platform's user registry and channel API.
type Directory interface {
	UserExists(ctx context.Context, id string) (bool, error)
	UpsertUser(ctx context.Context, id, name string) error
	MirrorReply(ctx context.Context, userID, text string) error
}

// Generator produces an AI reply from prior exchanges and a new message.
type Generator interface {
	Reply(ctx context.Context, history []models.Chat, message string) (string, error)
}

// Handler holds the relay HTTP handlers.
type Handler struct {
	users     UserStore
	chats     ChatStore
	directory Directory
	ai        Generator
	log       *zap.Logger
}

func NewHandler(users UserStore, chats ChatStore, directory Directory, ai Generator, log *zap.Logger) *Handler {
	return &Handler{users: users, chats: chats, directory: directory, ai: ai, log: log}
}

// RegisterUser ensures the user exists in both the messaging directory and
// the store, keyed by the id derived from the email.
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, validationErr("invalid request body"))
		return
	}
	resp, rerr := h.register(r.Context(), req)
	if rerr != nil {
		h.writeError(w, rerr)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, *Error) {
	if err := requireFields(map[string]string{"name": req.Name, "email": req.Email}); err != nil {
		return nil, err
	}
	userID := DeriveUserID(req.Email)

	// Directory first, then store. Both lookups precede creation, so repeated
	// registrations of the same email never create duplicates.
	exists, err := h.directory.UserExists(ctx, userID)
	if err != nil {
		return nil, upstreamErr("directory lookup", err)
	}
	if !exists {
		if err := h.directory.UpsertUser(ctx, userID, req.Name); err != nil {
			return nil, upstreamErr("directory create", err)
		}
	}

	if _, err := h.users.GetUser(ctx, userID); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, upstreamErr("user lookup", err)
		}
		if _, err := h.users.CreateUser(ctx, userID, req.Email, req.Name, "user"); err != nil {
			// The directory entry already exists at this point. Not rolled
			// back; a later registration with the same email heals the store.
			h.log.Error("store create failed after directory create",
				zap.String("user_id", userID), zap.Error(err))
			return nil, upstreamErr("user create", err)
		}
	}

	return &models.RegisterResponse{UserID: userID, Name: req.Name, Email: req.Email}, nil
}

// Chat verifies the user, assembles the prompt from recent history, invokes
// the model, persists the exchange, and mirrors the reply into the user's
// channel.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, validationErr("invalid request body"))
		return
	}
	resp, rerr := h.chat(r.Context(), req)
	if rerr != nil {
		h.writeError(w, rerr)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, *Error) {
	if err := requireFields(map[string]string{"message": req.Message, "userId": req.UserID}); err != nil {
		return nil, err
	}

	exists, err := h.directory.UserExists(ctx, req.UserID)
	if err != nil {
		return nil, upstreamErr("directory lookup", err)
	}
	if !exists {
		return nil, notFoundErr("User not found, please, register first")
	}
	if _, err := h.users.GetUser(ctx, req.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFoundErr("User not found, please, register first")
		}
		return nil, upstreamErr("user lookup", err)
	}

	history, err := h.chats.RecentChats(ctx, req.UserID, HistoryWindow)
	if err != nil {
		return nil, upstreamErr("history lookup", err)
	}

	reply, err := h.ai.Reply(ctx, history, req.Message)
	if err != nil {
		return nil, upstreamErr("ai generate", err)
	}

	if _, err := h.chats.CreateChat(ctx, req.UserID, req.Message, reply); err != nil {
		return nil, upstreamErr("chat create", err)
	}

	// Best-effort projection into the messaging channel. A failure here still
	// fails the request even though the exchange is persisted and the model
	// call was already made.
	if err := h.directory.MirrorReply(ctx, req.UserID, reply); err != nil {
		h.log.Error("channel mirror failed after chat persisted",
			zap.String("user_id", req.UserID), zap.Error(err))
		return nil, upstreamErr("channel mirror", err)
	}

	return &models.ChatResponse{Reply: reply}, nil
}

// History returns every persisted message/reply pair for the user.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	var req models.HistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, validationErr("invalid request body"))
		return
	}
	resp, rerr := h.history(r.Context(), req)
	if rerr != nil {
		h.writeError(w, rerr)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) history(ctx context.Context, req models.HistoryRequest) (*models.HistoryResponse, *Error) {
	if err := requireFields(map[string]string{"userId": req.UserID}); err != nil {
		return nil, err
	}
	items, err := h.chats.ChatsByUser(ctx, req.UserID)
	if err != nil {
		return nil, upstreamErr("history lookup", err)
	}
	if items == nil {
		items = []models.HistoryItem{}
	}
	return &models.HistoryResponse{Messages: items}, nil
}

// requireFields returns a validation error naming every empty field.
func requireFields(fields map[string]string) *Error {
	var missing []string
	for _, name := range []string{"name", "email", "message", "userId"} {
		if v, ok := fields[name]; ok && v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return validationErr("missing required field(s): " + strings.Join(missing, ", "))
	}
	return nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, err *Error) {
	switch err.Kind {
	case KindValidation:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Msg})
	case KindNotFound:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Msg})
	default:
		// Collaborator failures are logged in full and redacted for the client.
		h.log.Error("request failed", zap.String("step", err.Msg), zap.Error(err.Err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
