package websocket

import (
	"log"
	"sync"

	"github.com/anjiri1684/skill_swap/database"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

type MessagePayload struct {
	ConversationID string `json:"conversation_id"`
	Content        string `json:"content"`
}

// Event is a fire-and-forget push to a single user, used for session
// lifecycle notifications (confirmations, meeting links).
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan *models.Message)

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case message := <-Broadcast:
			deliverChatMessage(message)
		}
	}
}

func deliverChatMessage(message *models.Message) {
	var participantIDs []uuid.UUID
	err := database.DB.
		Table("conversation_participants").
		Where("conversation_id = ?", message.ConversationID).
		Pluck("user_id", &participantIDs).Error
	if err != nil {
		log.Printf("Error fetching participant IDs for conversation %s: %v", message.ConversationID, err)
		return
	}

	for _, participantID := range participantIDs {
		if participantID == message.SenderID {
			continue
		}
		writeToClient(participantID, message)
	}
}

// NotifyUser pushes an event to a connected user. Delivery is best effort:
// an offline user or a write failure is logged and otherwise ignored, so a
// notification can never fail the state transition that triggered it.
func NotifyUser(userID uuid.UUID, eventType string, payload interface{}) {
	writeToClient(userID, Event{Type: eventType, Payload: payload})
}

func writeToClient(userID uuid.UUID, payload interface{}) {
	clientsMu.RLock()
	conn, ok := clients[userID]
	clientsMu.RUnlock()
	if !ok {
		return
	}

	if err := conn.WriteJSON(payload); err != nil {
		log.Printf("Error sending payload to client %s: %v", userID, err)
		conn.Close()
		clientsMu.Lock()
		if current, ok := clients[userID]; ok && current == conn {
			delete(clients, userID)
		}
		clientsMu.Unlock()
	}
}
