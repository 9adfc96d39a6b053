package api

import "github.com/dixieflatline76/wallbridge/pkg/bridge"

// Call is a method call as sent by the front-end.
type Call struct {
	ID     string         `json:"id,omitempty"`
	Method string         `json:"method"`
	Args   map[string]any `json:"args,omitempty"`
}

// Reply is the wire form of a bridge.Result.
type Reply struct {
	ID      string `json:"id,omitempty"`
	Status  string `json:"status"`
	Result  any    `json:"result,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Event is pushed to every WebSocket client when host state changes.
type Event struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
	Path    string `json:"path,omitempty"`
}

// EventWallpaperChanged is sent after a successful setWallpaper call.
const EventWallpaperChanged = "wallpaper_changed"

// codeInvalidRequest is returned over WebSocket for frames that are not a Call.
const codeInvalidRequest = "INVALID_REQUEST"

// NewReply converts a bridge result into its wire form.
func NewReply(id string, r bridge.Result) Reply {
	reply := Reply{ID: id, Status: r.Status.String()}
	switch r.Status {
	case bridge.StatusSuccess:
		reply.Result = r.Value
	case bridge.StatusError:
		reply.Code = r.Code
		reply.Message = r.Message
		reply.Details = r.Details
	}
	return reply
}
