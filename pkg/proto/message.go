package proto

// Message is the wire unit of the session protocol: a tag followed by an
// ordered list of string fields, colon-delimited on the wire.
type Message struct {
	Tag    string
	Fields []string
}

// Client to server tags.
const (
	TagLogin         = "Login"
	TagCreateAccount = "CreateAccount"
	TagCheckRoom     = "CheckRoom"
	TagJoinRoom      = "JoinRoom"
	TagCreateRoom    = "CreateRoom"
	TagLeaveRoom     = "LeaveRoom"
	TagPlayerMove    = "PlayerMove"
	TagPlayerMessage = "PlayerMessage"
)

// Server to client tags.
const (
	TagLoginSuccess          = "LoginSuccess"
	TagLoginFailed           = "LoginFailed"
	TagAccountCreated        = "AccountCreated"
	TagAccountCreationFailed = "AccountCreationFailed"
	TagRoomExists            = "RoomExists"
	TagRoomDoesNotExist      = "RoomDoesNotExist"
	TagRoomCreated           = "RoomCreated"
	TagJoinedRoom            = "JoinedRoom"
	TagWaitingForPlayers     = "WaitingForPlayers"
	TagPlayerJoined          = "PlayerJoined"
	TagPlayerLeft            = "PlayerLeft"
	TagGameStarted           = "GameStarted"
	TagYourTurn              = "YourTurn"
	TagOpponentTurn          = "OpponentTurn"
	TagBoardState            = "BoardState"
	TagGameOver              = "GameOver"
	TagSpectatorAssigned     = "SpectatorAssigned"
	TagOpponentMessage       = "OpponentMessage"
)

// minFields maps every known tag to the number of fields it must carry at
// minimum. Tags absent from the map are unknown to the codec and pass
// through undecorated; the session layer decides what to do with them.
var minFields = map[string]int{
	TagLogin:         2,
	TagCreateAccount: 2,
	TagCheckRoom:     1,
	TagJoinRoom:      1,
	TagCreateRoom:    1,
	TagLeaveRoom:     1,
	TagPlayerMove:    2,
	TagPlayerMessage: 1,

	TagLoginSuccess:          0,
	TagLoginFailed:           1,
	TagAccountCreated:        0,
	TagAccountCreationFailed: 1,
	TagRoomExists:            1,
	TagRoomDoesNotExist:      1,
	TagRoomCreated:           1,
	TagJoinedRoom:            1,
	TagWaitingForPlayers:     0,
	TagPlayerJoined:          1,
	TagPlayerLeft:            1,
	TagGameStarted:           1,
	TagYourTurn:              0,
	TagOpponentTurn:          0,
	TagBoardState:            1,
	TagGameOver:              1,
	TagSpectatorAssigned:     0,
	TagOpponentMessage:       1,
}

// Field returns the i-th field, or the empty string when the message does
// not carry that many fields.
func (m Message) Field(i int) string {
	if i < 0 || i >= len(m.Fields) {
		return ""
	}
	return m.Fields[i]
}
