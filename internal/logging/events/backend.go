package events

import "github.com/atomicstack/keynav/internal/logging"

type BackendTracer struct{}

type CommandTracer struct{}

var (
	Backend = BackendTracer{}
	Command = CommandTracer{}
)

func (BackendTracer) Open(name string, width, height int) {
	logging.Trace("backend.open", map[string]interface{}{"name": name, "width": width, "height": height})
}

func (BackendTracer) Close(name string) {
	logging.Trace("backend.close", map[string]interface{}{"name": name})
}

func (BackendTracer) Grab(name string, ok bool) {
	logging.Trace("backend.grab", map[string]interface{}{"name": name, "ok": ok})
}

func (BackendTracer) Key(name, key string, pressed bool) {
	logging.Trace("backend.key", map[string]interface{}{"name": name, "key": key, "pressed": pressed})
}

func (BackendTracer) DropRepeat(name, key string) {
	logging.Trace("backend.key.repeat", map[string]interface{}{"name": name, "key": key})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "msg": msgType})
}
