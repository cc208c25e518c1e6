package apperr

import "net/http"

// ErrorCode is a stable, client-facing failure: HTTP status category, short code and message.
type ErrorCode struct {
	Status  int
	Code    string
	Message string
}

var (
	TokenExpired      = ErrorCode{http.StatusUnauthorized, "1401", "token has expired"}
	LoginIDDuplicated = ErrorCode{http.StatusConflict, "1409", "login id is already taken"}
	LoginFailed       = ErrorCode{http.StatusNotFound, "1404", "login id or password does not match"}
	InvalidRequest    = ErrorCode{http.StatusBadRequest, "1400", "invalid request"}
	Unauthorized      = ErrorCode{http.StatusUnauthorized, "1403", "authentication required"}
	InternalError     = ErrorCode{http.StatusInternalServerError, "1500", "internal server error"}

	WorkspaceNotFound     = ErrorCode{http.StatusNotFound, "2404", "workspace not found"}
	UserWorkspaceNotFound = ErrorCode{http.StatusNotFound, "3404", "user workspace not found"}
	UserNotFound          = ErrorCode{http.StatusNotFound, "4404", "user not found"}
	ChatRoomNotFound      = ErrorCode{http.StatusNotFound, "5404", "chat room not found"}
	ChatRoomUserNotFound  = ErrorCode{http.StatusNotFound, "6404", "chat room user not found"}
	NotChatRoomMember     = ErrorCode{http.StatusForbidden, "6403", "user is not a member of this chat room"}

	TeamNameGenerationFailed = ErrorCode{http.StatusBadGateway, "7502", "team name generation failed"}
)

// Response is the JSON body written for a failed request.
type Response struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c ErrorCode) Response() Response {
	return Response{Status: c.Status, Code: c.Code, Message: c.Message}
}
