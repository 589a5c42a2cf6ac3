package core

// Outbound event names on the relay boundary.
const (
	EventReceiveMessage = "receive-message"
	EventReceiveFile    = "receive-file"
	EventRoomEnded      = "room-ended"
	EventFileAck        = "file-ack"
)

// Inbound event names.
const (
	EventJoinRoom    = "join-room"
	EventSendMessage = "send-message"
	EventSendFile    = "send-file"
	EventEndRoom     = "end-room"
)

// ReceiveMessage is delivered to every room peer except the sender.
type ReceiveMessage struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Sender    string `json:"sender"`
	Timestamp int64  `json:"timestamp"`
}

// ReceiveFile carries a file transfer. Data is the text-safe payload passed
// through opaquely; the relay never decodes it.
type ReceiveFile struct {
	Type      string `json:"type"`
	FileName  string `json:"fileName"`
	MimeType  string `json:"mimeType"`
	Data      string `json:"data"`
	Timestamp int64  `json:"timestamp"`
}

// RoomEnded notifies every member, the requester included, that the room is over.
type RoomEnded struct {
	Type string `json:"type"`
}

// FileAck goes back to the send-file caller only.
type FileAck struct {
	Type    string `json:"type"`
	Success bool   `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}
