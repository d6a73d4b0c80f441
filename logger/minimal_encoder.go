package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette is one color theme for console output
type palette struct {
	fg        string
	time      string
	component []string // rotated by name hash
	record    string   // record and field names
	number    string
	ok        string
	warn      string
	warnBg    string
	err       string
	errBg     string
}

var themes = map[string]palette{
	// Everforest Dark: natural forest greens
	"everforest": {
		fg:        "\x1b[38;5;223m",
		time:      "\x1b[38;5;107m",
		component: []string{"\x1b[38;5;108m", "\x1b[38;5;65m", "\x1b[38;5;208m"},
		record:    "\x1b[38;5;109m",
		number:    "\x1b[38;5;108m",
		ok:        "\x1b[38;5;108m",
		warn:      "\x1b[38;5;179m",
		warnBg:    "\x1b[48;5;58m",
		err:       "\x1b[38;5;167m",
		errBg:     "\x1b[48;5;52m",
	},
	// Gruvbox Dark: warm, muted
	"gruvbox": {
		fg:        "\x1b[38;5;223m",
		time:      "\x1b[38;5;108m",
		component: []string{"\x1b[38;5;208m", "\x1b[38;5;214m"},
		record:    "\x1b[38;5;109m",
		number:    "\x1b[38;5;175m",
		ok:        "\x1b[38;5;142m",
		warn:      "\x1b[38;5;214m",
		warnBg:    "\x1b[48;5;58m",
		err:       "\x1b[38;5;167m",
		errBg:     "\x1b[48;5;88m",
	},
}

var currentTheme = "everforest"

// SetTheme configures the color scheme for log output. Unknown themes are
// ignored.
func SetTheme(theme string) {
	if _, ok := themes[theme]; ok {
		currentTheme = theme
	}
}

func colors() palette {
	return themes[currentTheme]
}

func colorComponent(name string) string {
	hash := 0
	for _, c := range name {
		hash += int(c)
	}
	rot := colors().component
	return rot[hash%len(rot)]
}

func colorMessage(msg string) string {
	c := colors()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "failed") || strings.Contains(lower, "error"):
		return c.err
	case strings.Contains(lower, "expanded") || strings.Contains(lower, "emitted") ||
		strings.Contains(lower, "up to date"):
		return c.ok
	default:
		return c.fg
	}
}

// minimalEncoder is a calm, compact console encoder.
// Format: "13:04:35  d.expand  expanded file  src/lib.rs 2 items 3ms  k=v"
type minimalEncoder struct {
	zapcore.Encoder
	fields []zapcore.Field // accumulated via With
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		fields:  append([]zapcore.Field(nil), enc.fields...),
	}
}

// AddString and friends are routed through the embedded encoder by zap's
// With; capture them so console output still shows context fields.
func (enc *minimalEncoder) AddString(key, val string) {
	enc.fields = append(enc.fields, zap.String(key, val))
}

func (enc *minimalEncoder) AddBool(key string, val bool) {
	enc.fields = append(enc.fields, zap.Bool(key, val))
}

func (enc *minimalEncoder) AddInt64(key string, val int64) {
	enc.fields = append(enc.fields, zap.Int64(key, val))
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	c := colors()
	final := buffer.NewPool().Get()

	final.AppendString(c.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorComponent(ent.LoggerName))
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(colorMessage(ent.Message))
	final.AppendString(ent.Message)
	final.AppendString(colorReset)

	all := append(append([]zapcore.Field(nil), enc.fields...), fields...)
	if s := formatFields(all); s != "" {
		final.AppendString("  ")
		final.AppendString(s)
	}

	final.AppendString("\n")
	return final, nil
}

func levelColorString(level zapcore.Level) string {
	c := colors()
	switch level {
	case zapcore.DebugLevel:
		return c.fg + "DEBUG" + colorReset
	case zapcore.WarnLevel:
		return colorBold + c.warnBg + c.warn + "WARN" + colorReset
	default:
		return colorBold + c.errBg + c.err + level.CapitalString() + colorReset
	}
}

// abbreviateName shortens component names: dismantle.expand -> d.expand
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

func fieldValue(field zapcore.Field) string {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.BoolType:
		return fmt.Sprintf("%t", field.Integer == 1)
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", field.Integer)
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok {
			return err.Error()
		}
		return ""
	case zapcore.SkipType:
		return ""
	}
	// Floats, durations, arrays and objects: let zap render them
	enc := zapcore.NewMapObjectEncoder()
	field.AddTo(enc)
	if v, ok := enc.Fields[field.Key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// formatFields renders well-known fields first, compactly and colored, then
// every other field as key=value. No field is dropped.
func formatFields(fields []zapcore.Field) string {
	c := colors()
	var head, rest []string
	for _, f := range fields {
		v := fieldValue(f)
		if v == "" {
			continue
		}
		switch f.Key {
		case FieldRecord, FieldField:
			head = append(head, c.record+v+colorReset)
		case FieldFile:
			head = append(head, v)
		case FieldItems:
			head = append(head, c.number+v+colorReset+" items")
		case FieldFailed:
			head = append(head, c.err+v+colorReset+" failed")
		case FieldDuration:
			head = append(head, c.number+v+colorReset+"ms")
		default:
			rest = append(rest, f.Key+"="+v)
		}
	}
	sort.Strings(rest)
	return strings.Join(append(head, rest...), " ")
}
