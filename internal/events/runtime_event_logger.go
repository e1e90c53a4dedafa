package events

import (
	"context"
	"encoding/json"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

func logRuntimeEvent(ctx context.Context, name string, payload any) {
	evt, ok := payload.(AppEvent)
	if !ok {
		return
	}

	data, err := json.Marshal(evt)
	if err != nil {
		runtime.LogError(ctx, "events: failed to marshal event: "+err.Error())
		return
	}

	msg := name + " " + string(data)
	switch evt.Type {
	case EventError:
		runtime.LogError(ctx, msg)
	case EventWarn:
		runtime.LogWarning(ctx, msg)
	default:
		runtime.LogInfo(ctx, msg)
	}
}
