package wire

import (
	"fmt"

	"github.com/aretw0/dagview/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Instruction is one server-to-browser engine operation.
type Instruction struct {
	Op   domain.EngineOp `json:"op"`
	Data any             `json:"data,omitempty"`
}

// Event names a browser-to-server message.
type Event string

const (
	EventMounted     Event = "mounted"
	EventResize      Event = "resize"
	EventAfterRender Event = "afterrender"
	EventPointer     Event = "pointer"
	EventClick       Event = "click"
	EventControl     Event = "control"
	EventDestroyed   Event = "destroyed"
)

// ClientMessage is one browser-to-server message.
type ClientMessage struct {
	Event   Event          `json:"event"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Size is the payload of mounted and resize events.
type Size struct {
	Width  int `json:"width" mapstructure:"width"`
	Height int `json:"height" mapstructure:"height"`
}

// ModePayload is the data of a set_mode instruction.
type ModePayload struct {
	Mode      domain.Mode       `json:"mode"`
	Behaviors []domain.Behavior `json:"behaviors"`
}

// pointerPayload is the payload of a pointer event.
type pointerPayload struct {
	Kind domain.InteractionKind `mapstructure:"kind"`
}

// controlPayload is the payload of a control event.
type controlPayload struct {
	Name string `mapstructure:"name"`
}

func decode(payload map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}
	return nil
}

// Command converts a message into the coordinator command it stands for.
// mounted and resize both become resize commands; destroyed becomes an
// unmount.
func (m ClientMessage) Command() (domain.Command, error) {
	switch m.Event {
	case EventMounted, EventResize:
		var size Size
		if err := decode(m.Payload, &size); err != nil {
			return domain.Command{}, err
		}
		return domain.ResizeCommand(size.Width, size.Height), nil

	case EventAfterRender:
		return domain.ControlCommand(domain.CmdRenderComplete), nil

	case EventPointer:
		var p pointerPayload
		if err := decode(m.Payload, &p); err != nil {
			return domain.Command{}, err
		}
		if p.Kind == "" {
			return domain.Command{}, fmt.Errorf("%w: pointer event without kind", domain.ErrInvalidPayload)
		}
		return domain.InteractionCommand(p.Kind), nil

	case EventClick:
		var click domain.ClickEvent
		if err := decode(m.Payload, &click); err != nil {
			return domain.Command{}, err
		}
		return domain.ClickCommand(click), nil

	case EventControl:
		var c controlPayload
		if err := decode(m.Payload, &c); err != nil {
			return domain.Command{}, err
		}
		kind := domain.CommandKind(c.Name)
		if !kind.IsControl() {
			return domain.Command{}, fmt.Errorf("%w: control %q", domain.ErrUnknownCommand, c.Name)
		}
		return domain.ControlCommand(kind), nil

	case EventDestroyed:
		return domain.ControlCommand(domain.CmdUnmount), nil
	}
	return domain.Command{}, fmt.Errorf("%w: event %q", domain.ErrUnknownCommand, m.Event)
}
