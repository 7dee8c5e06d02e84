// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ButtonMask represents the state of pointer buttons in a VNC pointer event.
type ButtonMask uint8

// Button mask constants for standard mouse buttons and scroll wheel events.
const (
	ButtonLeft ButtonMask = 1 << iota
	ButtonMiddle
	ButtonRight
	Button4
	Button5
	Button6
	Button7
	Button8
)

// VNC protocol constants.
const (
	ColorMapSize             = 256
	MaxClipboardLength       = 1024 * 1024
	Latin1MaxCodePoint       = 255
	MaxRectanglesPerUpdate   = 10000
	MaxServerClipboardLength = 10 * 1024 * 1024
)

// MetricsCollector defines the interface for collecting metrics and observability data.
type MetricsCollector interface {
	Counter(name string, tags ...interface{}) interface{}
	Gauge(name string, tags ...interface{}) interface{}
	Histogram(name string, tags ...interface{}) interface{}
}

// NoOpMetrics is a MetricsCollector implementation that discards all metrics.
type NoOpMetrics struct{}

// Counter returns a no-op counter metric.
func (m *NoOpMetrics) Counter(name string, tags ...interface{}) interface{} { return nil }

// Gauge returns a no-op gauge metric.
func (m *NoOpMetrics) Gauge(name string, tags ...interface{}) interface{} { return nil }

// Histogram returns a no-op histogram metric.
func (m *NoOpMetrics) Histogram(name string, tags ...interface{}) interface{} { return nil }

// ClientConn represents an active VNC client connection.
// Safe for concurrent use for sending client messages.
type ClientConn struct {
	c      net.Conn
	config *ClientConfig
	logger Logger

	// Context and cancellation support
	ctx    context.Context
	cancel context.CancelFunc

	// Mutex for protecting concurrent access to connection state
	mu sync.RWMutex

	// ColorMap contains the color map for indexed color modes.
	ColorMap [ColorMapSize]Color

	// Encs contains the list of encodings supported by this client.
	Encs []Encoding

	// FrameBufferWidth is the width of the remote framebuffer in pixels.
	FrameBufferWidth uint16

	// FrameBufferHeight is the height of the remote framebuffer in pixels.
	FrameBufferHeight uint16

	// DesktopName is the human-readable name of the desktop.
	DesktopName string

	// PixelFormat describes the format of pixel data used in this connection.
	PixelFormat PixelFormat

	// resizer receives DesktopSize pseudo-encoding notifications; nil if
	// nothing has been attached via AttachResizer.
	resizer Resizer

	// graphicsHost is the host graphics contract used to create and blit
	// into framebuffer, the connection-owned pixel surface Raw and CopyRect
	// rectangles decode onto. nil until WithGraphicsHost or AttachWindow
	// supplies one, in which case Raw/CopyRect decoding is forward-only
	// (rectangle structs are still delivered on ServerMessageCh).
	graphicsHost GraphicsHost

	// framebuffer is the client-visible framebuffer surface rectangles are
	// blitted onto. Written only by the receive task (handshake or
	// DesktopSize-triggered recreation, and lazily on first Raw rectangle);
	// read-accessible to the host via GetFramebuffer.
	framebuffer Surface

	// qemuKeyEventsSupported records whether the server advertised the QEMU
	// Extended Key Event pseudo-encoding. Guarded by mu.
	qemuKeyEventsSupported bool

	// pacer throttles automatic incremental update re-requests to the
	// configured FPS; nil when AutoRequestUpdates is disabled.
	pacer *rate.Limiter

	// shutdownCh, if configured, receives exactly one Result when the
	// receive loop stops, whatever the reason.
	shutdownCh   chan Result
	shutdownOnce sync.Once
}

// ClientConfig configures VNC client connection behavior.
type ClientConfig struct {
	// Auth specifies the authentication methods supported by the client.
	Auth []ClientAuth

	// Exclusive determines whether this client requests exclusive access.
	Exclusive bool

	// ServerMessageCh is the channel where server messages will be delivered.
	ServerMessageCh chan<- ServerMessage

	// ServerMessages specifies additional custom server message types.
	ServerMessages []ServerMessage

	// Logger specifies the logger instance to use for connection logging.
	Logger Logger

	// AuthRegistry specifies the authentication registry to use.
	AuthRegistry *AuthRegistry

	// ConnectTimeout specifies the timeout for the initial connection handshake.
	ConnectTimeout time.Duration

	// ReadTimeout specifies the timeout for individual read operations.
	ReadTimeout time.Duration

	// WriteTimeout specifies the timeout for individual write operations.
	WriteTimeout time.Duration

	// Metrics specifies the metrics collector to use for connection monitoring.
	Metrics MetricsCollector

	// GraphicsHost is the host graphics contract (surface creation, blitting,
	// window resize) this connection drives. When set, the receive loop
	// creates a framebuffer surface from the negotiated dimensions/pixel
	// format and blits every decoded Raw/CopyRect rectangle onto it, and
	// DesktopSize pseudo-encodings recreate it at the new size. Nil means no
	// window is attached; DesktopSize pseudo-encodings still update
	// FrameBufferWidth/Height, they just have nothing to blit onto or
	// notify.
	GraphicsHost GraphicsHost

	// FPS caps the rate of automatically re-armed incremental framebuffer
	// update requests when AutoRequestUpdates is true. Defaults to 10 when
	// left at zero.
	FPS int

	// AutoRequestUpdates, when true, makes the receive loop issue the next
	// incremental FramebufferUpdateRequest itself (paced to FPS) after each
	// FramebufferUpdate is delivered, instead of leaving re-arming to the
	// caller.
	AutoRequestUpdates bool

	// ShutdownCh, if set, receives exactly one Result when the receive loop
	// stops for any reason: a clean close, a protocol error, or an
	// unsupported server message type.
	ShutdownCh chan Result
}

// ClientOption represents a functional option for configuring a VNC client connection.
type ClientOption func(*ClientConfig)

// WithAuth sets the authentication methods for the client connection.
// The methods are tried in the order provided during server negotiation.
func WithAuth(auth ...ClientAuth) ClientOption {
	return func(cfg *ClientConfig) {
		cfg.Auth = auth
	}
}

// WithAuthRegistry sets a custom authentication registry for the client.
// This allows registration of custom authentication methods beyond the defaults.
func WithAuthRegistry(registry *AuthRegistry) ClientOption {
	return func(cfg *ClientConfig) {
		cfg.AuthRegistry = registry
	}
}

// WithExclusive sets whether the client should request exclusive access to the server.
// When true, other clients will be disconnected when this client connects.
func WithExclusive(exclusive bool) ClientOption {
	return func(cfg *ClientConfig) {
		cfg.Exclusive = exclusive
	}
}

// WithLogger sets the logger for the client connection.
// Use NoOpLogger to disable logging or provide a custom implementation.
func WithLogger(logger Logger) ClientOption {
	return func(cfg *ClientConfig) {
		cfg.Logger = logger
	}
}

// WithServerMessageChannel sets the channel where server messages will be delivered.
// The channel should be buffered to prevent blocking the message processing loop.
func WithServerMessageChannel(ch chan<- ServerMessage) ClientOption {
	return func(cfg *ClientConfig) {
		cfg.ServerMessageCh = ch
	}
}

// WithServerMessages sets additional custom server message types.
// These will be registered alongside the standard VNC message types.
func WithServerMessages(messages ...ServerMessage) ClientOption {
	return func(cfg *ClientConfig) {
		cfg.ServerMessages = messages
	}
}

// WithConnectTimeout sets the timeout for the initial connection handshake.
// This includes protocol negotiation, security handshake, and initialization.
func WithConnectTimeout(timeout time.Duration) ClientOption {
	return func(cfg *ClientConfig) {
		cfg.ConnectTimeout = timeout
	}
}

// WithReadTimeout sets the timeout for individual read operations.
// This applies to reading server messages and framebuffer data.
func WithReadTimeout(timeout time.Duration) ClientOption {
	return func(cfg *ClientConfig) {
		cfg.ReadTimeout = timeout
	}
}

// WithWriteTimeout sets the timeout for individual write operations.
// This applies to sending client messages like key events and pointer events.
func WithWriteTimeout(timeout time.Duration) ClientOption {
	return func(cfg *ClientConfig) {
		cfg.WriteTimeout = timeout
	}
}

// WithTimeout sets both read and write timeouts to the same value.
// This is a convenience function for setting both timeouts at once.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(cfg *ClientConfig) {
		cfg.ReadTimeout = timeout
		cfg.WriteTimeout = timeout
	}
}

// WithMetrics sets the metrics collector for connection monitoring.
// Use NoOpMetrics to disable metrics collection or provide a custom implementation.
func WithMetrics(metrics MetricsCollector) ClientOption {
	return func(cfg *ClientConfig) {
		cfg.Metrics = metrics
	}
}

// WithGraphicsHost attaches a host graphics contract implementation. The
// connection notifies it via ResizeWindow whenever a DesktopSize
// pseudo-encoding changes the framebuffer dimensions. Use NewMemGraphicsHost
// for a headless default, or provide one backed by a real display toolkit.
func WithGraphicsHost(host GraphicsHost) ClientOption {
	return func(cfg *ClientConfig) {
		cfg.GraphicsHost = host
	}
}

// WithFPS sets the cap on automatically re-armed incremental framebuffer
// update requests (see WithAutoRequestUpdates). Values <= 0 fall back to
// the default of 10.
func WithFPS(fps int) ClientOption {
	return func(cfg *ClientConfig) {
		cfg.FPS = fps
	}
}

// WithAutoRequestUpdates enables the receive loop's self-pacing framebuffer
// update cycle: after each FramebufferUpdate is delivered, the loop issues
// the next incremental request itself, rate-limited to FPS.
func WithAutoRequestUpdates(enabled bool) ClientOption {
	return func(cfg *ClientConfig) {
		cfg.AutoRequestUpdates = enabled
	}
}

// WithShutdownChannel registers a channel that receives exactly one Result
// when the receive loop stops, for any reason.
func WithShutdownChannel(ch chan Result) ClientOption {
	return func(cfg *ClientConfig) {
		cfg.ShutdownCh = ch
	}
}

// Client establishes a VNC client connection with the provided configuration.
// Performs complete handshake and starts background message processing.
//
// Deprecated: Use ClientWithContext for better cancellation support.
func Client(c net.Conn, cfg *ClientConfig) (*ClientConn, error) {
	return ClientWithContext(context.Background(), c, cfg)
}

// ClientWithContext establishes a VNC client connection with context support.
// Performs complete handshake including protocol negotiation, security, and initialization.
func ClientWithContext(ctx context.Context, c net.Conn, cfg *ClientConfig) (*ClientConn, error) {
	if cfg == nil {
		cfg = &ClientConfig{}
	}

	// Initialize logger from config or use NoOpLogger as default
	var logger Logger = &NoOpLogger{}
	if cfg.Logger != nil {
		logger = cfg.Logger
	}

	// Create a cancellable context for this connection
	connCtx, cancel := context.WithCancel(ctx)

	conn := &ClientConn{
		c:      c,
		config: cfg,
		logger: logger,
		ctx:    connCtx,
		cancel: cancel,
	}

	if cfg.GraphicsHost != nil {
		conn.resizer = cfg.GraphicsHost
		conn.graphicsHost = cfg.GraphicsHost
	}

	if cfg.ShutdownCh != nil {
		conn.shutdownCh = cfg.ShutdownCh
	}

	if cfg.AutoRequestUpdates {
		fps := cfg.FPS
		if fps <= 0 {
			fps = defaultFPS
		}
		conn.pacer = rate.NewLimiter(rate.Limit(fps), 1)
	}

	if err := conn.handshakeWithContext(connCtx); err != nil {
		conn.Close()
		return nil, err
	}

	go conn.mainLoop()

	return conn, nil
}

// ClientWithOptions establishes a VNC client connection using functional options for configuration.
// This provides a modern, flexible way to configure client connections while maintaining
// backward compatibility. Options are applied in the order they are provided.
//
// Parameters:
//   - ctx: Context for cancellation and timeout control
//   - c: An established network connection to a VNC server (typically TCP)
//   - options: Functional options for configuring the client behavior
//
// Returns:
//   - *ClientConn: A configured VNC client connection ready for use
//   - error: Any error that occurred during the handshake process
//
// Example usage:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//
//	conn, err := net.Dial("tcp", "localhost:5900")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer conn.Close()
//
//	client, err := ClientWithOptions(ctx, conn,
//		WithAuth(&ClientAuthNone{}),
//		WithExclusive(true),
//		WithLogger(&StandardLogger{}),
//		WithTimeout(10*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
// Advanced configuration example:
//
//	msgCh := make(chan ServerMessage, 100)
//	registry := NewAuthRegistry()
//	registry.Register(16, func() ClientAuth { return &CustomAuth{} })
//
//	client, err := ClientWithOptions(ctx, conn,
//		WithAuthRegistry(registry),
//		WithServerMessageChannel(msgCh),
//		WithConnectTimeout(30*time.Second),
//		WithReadTimeout(5*time.Second),
//		WithWriteTimeout(5*time.Second),
//		WithMetrics(&PrometheusMetrics{}),
//	)
//
// The functional options approach provides several benefits:
// - Type-safe configuration with compile-time validation
// - Extensible without breaking existing code
// - Self-documenting through option names
// - Composable and reusable option sets
// - Optional parameters with sensible defaults.
func ClientWithOptions(ctx context.Context, c net.Conn, options ...ClientOption) (*ClientConn, error) {
	// Create default configuration
	cfg := &ClientConfig{}

	// Apply all functional options
	for _, option := range options {
		option(cfg)
	}

	// Apply connect timeout to context if specified
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	// Use the existing ClientWithContext function with the configured options
	return ClientWithContext(ctx, c, cfg)
}

// Close terminates the VNC connection and releases associated resources.
// This method cancels the connection context and closes the underlying network connection,
// which causes the message processing goroutine to exit. The server message channel is not closed.
//
// It is safe to call Close multiple times; subsequent calls will have no effect.
// After calling Close, the ClientConn should not be used for any other operations.
//
// Returns:
//   - error: Any error that occurred while closing the network connection
//
// Example usage:
//
//	client, err := Client(conn, config)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close() // Ensure cleanup
//
//	// Use the client...
//
//	// Explicit close when done
//	if err := client.Close(); err != nil {
//		log.Printf("Error closing VNC connection: %v", err)
//	}
func (c *ClientConn) Close() error {
	// Cancel the context to signal all operations to stop
	if c.cancel != nil {
		c.cancel()
	}

	// Close the network connection
	return c.c.Close()
}

// CutText sends clipboard text from the client to the VNC server.
// This method implements the ClientCutText message as defined in RFC 6143 Section 7.5.6,
// allowing the client to share clipboard content with the remote desktop.
//
// The text must contain only Latin-1 characters (Unicode code points 0-255).
// Characters outside this range will cause a validation error. This restriction
// is imposed by the VNC protocol specification for compatibility across different
// systems and character encodings.
//
// Parameters:
//   - text: The clipboard text to send to the server (Latin-1 characters only)
//
// Returns:
//   - error: ValidationError if text contains invalid characters, NetworkError for transmission issues
//
// Example usage:
//
//	// Send simple ASCII text
//	err := client.CutText("Hello, World!")
//	if err != nil {
//		log.Printf("Failed to send clipboard text: %v", err)
//	}
//
//	// Handle clipboard synchronization
//	clipboardText := getLocalClipboard()
//	if isValidLatin1(clipboardText) {
//		client.CutText(clipboardText)
//	}
//
// Character validation:
// The method validates each character to ensure it falls within the Latin-1
// character set (0-255). Characters beyond this range will result in an error:
//
//	// This will fail - contains Unicode characters outside Latin-1
//	err := client.CutText("Hello 世界") // Contains Chinese characters
//	if err != nil {
//		// Handle validation error
//	}
//
// Security considerations:
// Clipboard sharing can potentially expose sensitive information. Applications
// should consider whether clipboard synchronization is appropriate for their
// security requirements and may want to filter or sanitize clipboard content.
func (c *ClientConn) CutText(text string) error {
	// Validate and sanitize clipboard text for security
	validator := newInputValidator()

	if err := validator.ValidateTextData(text, MaxClipboardLength); err != nil {
		c.logger.Error("Invalid clipboard text",
			Field{Key: "text_length", Value: len(text)},
			Field{Key: "error", Value: err})
		return validationError("CutText", "invalid clipboard text", err)
	}

	// Sanitize the text to remove potentially dangerous characters
	sanitizedText := validator.SanitizeText(text)
	if sanitizedText != text {
		c.logger.Warn("Clipboard text was sanitized",
			Field{Key: "original_length", Value: len(text)},
			Field{Key: "sanitized_length", Value: len(sanitizedText)})
		text = sanitizedText
	}

	var buf bytes.Buffer

	// This is the fixed size data we'll send
	fixedData := []interface{}{
		uint8(6),
		uint8(0),
		uint8(0),
		uint8(0),
		uint32(len([]rune(text))), // #nosec G115 - bounded by len(text), which was already validated by ValidateTextData
	}

	for _, val := range fixedData {
		if err := binary.Write(&buf, binary.BigEndian, val); err != nil {
			return networkError("CutText", "failed to write fixed data to buffer", err)
		}
	}

	for _, char := range text {
		if char > Latin1MaxCodePoint {
			return validationError("CutText", fmt.Sprintf("character '%c' is not valid Latin-1", char), nil)
		}

		if err := binary.Write(&buf, binary.BigEndian, uint8(char)); err != nil {
			return networkError("CutText", "failed to write character to buffer", err)
		}
	}

	dataLength := buf.Len()
	if err := c.writeWithContext(c.ctx, buf.Bytes()[0:dataLength]); err != nil {
		return networkError("CutText", "failed to send cut text message", err)
	}

	return nil
}

// FramebufferUpdateRequest requests a framebuffer update from the VNC server.
// This method implements the FramebufferUpdateRequest message as defined in RFC 6143 Section 7.5.3,
// asking the server to send pixel data for a specified rectangular region of the desktop.
//
// The server will respond asynchronously with a FramebufferUpdateMessage containing
// the requested pixel data. There is no guarantee about response timing, and the
// server may combine multiple requests or send partial updates.
//
// Parameters:
//   - incremental: If true, only send pixels that have changed since the last update.
//     If false, send all pixels in the specified rectangle regardless of changes.
//   - x, y: The top-left corner coordinates of the requested rectangle (0-based)
//   - width, height: The dimensions of the requested rectangle in pixels
//
// Returns:
//   - error: NetworkError if the request cannot be sent to the server
//
// Example usage:
//
//	// Request full screen update (non-incremental)
//	err := client.FramebufferUpdateRequest(false, 0, 0,
//		client.FrameBufferWidth, client.FrameBufferHeight)
//	if err != nil {
//		log.Printf("Failed to request framebuffer update: %v", err)
//	}
//
//	// Request incremental update for a specific region
//	err = client.FramebufferUpdateRequest(true, 100, 100, 200, 150)
//	if err != nil {
//		log.Printf("Failed to request incremental update: %v", err)
//	}
//
// Update strategies:
//
//	// Initial full screen capture
//	client.FramebufferUpdateRequest(false, 0, 0, width, height)
//
//	// Continuous incremental updates for live viewing
//	ticker := time.NewTicker(33 * time.Millisecond) // ~30 FPS
//	go func() {
//		for range ticker.C {
//			client.FramebufferUpdateRequest(true, 0, 0, width, height)
//		}
//	}()
//
// Performance considerations:
// - Incremental updates are more bandwidth-efficient for live viewing
// - Non-incremental updates ensure complete accuracy but use more bandwidth
// - Request frequency should balance responsiveness with network/CPU usage
// - Large rectangles may be split by the server into multiple smaller updates.
func (c *ClientConn) FramebufferUpdateRequest(incremental bool, x, y, width, height uint16) error {
	c.logger.Debug("Sending framebuffer update request",
		Field{Key: "incremental", Value: incremental},
		Field{Key: "x", Value: x},
		Field{Key: "y", Value: y},
		Field{Key: "width", Value: width},
		Field{Key: "height", Value: height})

	var buf bytes.Buffer
	var incrementalByte uint8 = 0

	if incremental {
		incrementalByte = 1
	}

	data := []interface{}{
		uint8(3),
		incrementalByte,
		x, y, width, height,
	}

	for _, val := range data {
		if err := binary.Write(&buf, binary.BigEndian, val); err != nil {
			c.logger.Error("Failed to write framebuffer request data to buffer", Field{Key: "error", Value: err})
			return networkError("FramebufferUpdateRequest", "failed to write request data to buffer", err)
		}
	}

	if err := c.writeWithContext(c.ctx, buf.Bytes()[0:10]); err != nil {
		c.logger.Error("Failed to send framebuffer update request", Field{Key: "error", Value: err})
		return networkError("FramebufferUpdateRequest", "failed to send framebuffer update request", err)
	}

	return nil
}

// KeyEvent sends a keyboard key press or release event to the VNC server.
// This method implements the KeyEvent message as defined in RFC 6143 Section 7.5.4,
// allowing the client to send keyboard input to the remote desktop.
//
// Keys are identified using X Window System keysym values, which provide a
// standardized way to represent keyboard keys across different platforms and
// keyboard layouts. To simulate a complete key press, you must send both a
// key down event (down=true) followed by a key up event (down=false).
//
// Parameters:
//   - keysym: The X11 keysym value identifying the key (see X11/keysymdef.h)
//   - down: true for key press, false for key release
//
// Returns:
//   - error: NetworkError if the event cannot be sent to the server
//
// Example usage:
//
//	// Send the letter 'A' (complete key press and release)
//	const XK_A = 0x0041
//	client.KeyEvent(XK_A, true)  // Key down
//	client.KeyEvent(XK_A, false) // Key up
//
//	// Send Enter key
//	const XK_Return = 0xff0d
//	client.KeyEvent(XK_Return, true)
//	client.KeyEvent(XK_Return, false)
//
//	// Send Ctrl+C (hold Ctrl, press C, release C, release Ctrl)
//	const XK_Control_L = 0xffe3
//	const XK_c = 0x0063
//	client.KeyEvent(XK_Control_L, true)  // Ctrl down
//	client.KeyEvent(XK_c, true)          // C down
//	client.KeyEvent(XK_c, false)         // C up
//	client.KeyEvent(XK_Control_L, false) // Ctrl up
//
// Common keysym values:
//
//	// Letters (uppercase when Shift is held)
//	XK_a = 0x0061, XK_b = 0x0062, ..., XK_z = 0x007a
//	XK_A = 0x0041, XK_B = 0x0042, ..., XK_Z = 0x005a
//
//	// Numbers
//	XK_0 = 0x0030, XK_1 = 0x0031, ..., XK_9 = 0x0039
//
//	// Special keys
//	XK_Return = 0xff0d     // Enter
//	XK_Escape = 0xff1b     // Escape
//	XK_BackSpace = 0xff08  // Backspace
//	XK_Tab = 0xff09        // Tab
//	XK_space = 0x0020      // Space
//
//	// Modifier keys
//	XK_Shift_L = 0xffe1    // Left Shift
//	XK_Control_L = 0xffe3  // Left Ctrl
//	XK_Alt_L = 0xffe9      // Left Alt
//
// Key sequence helper:
//
//	func tapKey(c *ClientConn, keysym uint32) error {
//		if err := c.KeyEvent(keysym, true); err != nil {
//			return err
//		}
//		return c.KeyEvent(keysym, false)
//	}
//
// For a complete reference of keysym values, consult the X11 keysym definitions
// or online keysym references. The values are standardized and consistent across
// VNC implementations.
func (c *ClientConn) KeyEvent(keysym uint32, down bool) error {
	// Validate keysym for security
	validator := newInputValidator()
	if err := validator.ValidateKeySymbol(keysym); err != nil {
		c.logger.Error("Invalid keysym value",
			Field{Key: "keysym", Value: keysym},
			Field{Key: "error", Value: err})
		return validationError("KeyEvent", "invalid keysym value", err)
	}

	c.logger.Debug("Sending key event",
		Field{Key: "keysym", Value: keysym},
		Field{Key: "down", Value: down})

	var downFlag uint8 = 0
	if down {
		downFlag = 1
	}

	data := []interface{}{
		uint8(4),
		downFlag,
		uint8(0),
		uint8(0),
		keysym,
	}

	var buf bytes.Buffer
	for _, val := range data {
		if err := binary.Write(&buf, binary.BigEndian, val); err != nil {
			c.logger.Error("Failed to write key event data to buffer", Field{Key: "error", Value: err})
			return networkError("KeyEvent", "failed to write key event data to buffer", err)
		}
	}

	if err := c.writeWithContext(c.ctx, buf.Bytes()); err != nil {
		c.logger.Error("Failed to send key event", Field{Key: "error", Value: err})
		return networkError("KeyEvent", "failed to send key event", err)
	}

	return nil
}

// PointerEvent sends mouse movement and button state to the VNC server.
// This method implements the PointerEvent message as defined in RFC 6143 Section 7.5.5,
// allowing the client to send mouse input including movement, clicks, and scroll events
// to the remote desktop.
//
// The button mask represents the current state of all mouse buttons simultaneously.
// When a bit is set (1), the corresponding button is pressed; when clear (0), the
// button is released. This allows for complex interactions like drag operations
// where multiple buttons may be held simultaneously.
//
// Parameters:
//   - mask: Bitmask indicating which buttons are currently pressed (see ButtonMask constants)
//   - x, y: Mouse cursor coordinates in pixels (0-based, relative to framebuffer)
//
// Returns:
//   - error: NetworkError if the event cannot be sent to the server
//
// Example usage:
//
//	// Simple mouse movement (no buttons pressed)
//	err := client.PointerEvent(0, 100, 200)
//
//	// Left mouse button click at coordinates (150, 300)
//	client.PointerEvent(ButtonLeft, 150, 300)      // Button down
//	client.PointerEvent(0, 150, 300)               // Button up
//
//	// Right mouse button click
//	client.PointerEvent(ButtonRight, 200, 100)     // Right button down
//	client.PointerEvent(0, 200, 100)               // Button up
//
//	// Drag operation (left button held while moving)
//	client.PointerEvent(ButtonLeft, 100, 100)      // Start drag
//	client.PointerEvent(ButtonLeft, 120, 120)      // Drag to new position
//	client.PointerEvent(ButtonLeft, 140, 140)      // Continue dragging
//	client.PointerEvent(0, 140, 140)               // End drag (release button)
//
// Scroll wheel events:
//
//	// Scroll up (wheel away from user)
//	client.PointerEvent(Button4, x, y)
//	client.PointerEvent(0, x, y)
//
//	// Scroll down (wheel toward user)
//	client.PointerEvent(Button5, x, y)
//	client.PointerEvent(0, x, y)
//
// Multiple buttons simultaneously:
//
//	// Left and right buttons pressed together
//	mask := ButtonLeft | ButtonRight
//	client.PointerEvent(mask, x, y)
//	client.PointerEvent(0, x, y) // Release both buttons
//
// Helper functions for common operations:
//
//	func (c *ClientConn) MouseMove(x, y uint16) error {
//		return c.PointerEvent(0, x, y)
//	}
//
//	func (c *ClientConn) LeftClick(x, y uint16) error {
//		if err := c.PointerEvent(ButtonLeft, x, y); err != nil {
//			return err
//		}
//		return c.PointerEvent(0, x, y)
//	}
//
//	func (c *ClientConn) ScrollUp(x, y uint16) error {
//		if err := c.PointerEvent(Button4, x, y); err != nil {
//			return err
//		}
//		return c.PointerEvent(0, x, y)
//	}
//
// Coordinate system:
// Mouse coordinates are relative to the framebuffer origin (0,0) at the top-left corner.
// Valid coordinates range from (0,0) to (FrameBufferWidth-1, FrameBufferHeight-1).
// Coordinates outside this range may be clamped or ignored by the server.
func (c *ClientConn) PointerEvent(mask ButtonMask, x, y uint16) error {
	// Validate pointer coordinates for security
	validator := newInputValidator()
	width, height := c.GetFrameBufferSize()
	if err := validator.ValidatePointerPosition(x, y, width, height); err != nil {
		c.logger.Error("Invalid pointer coordinates",
			Field{Key: "x", Value: x},
			Field{Key: "y", Value: y},
			Field{Key: "framebuffer_width", Value: c.FrameBufferWidth},
			Field{Key: "framebuffer_height", Value: c.FrameBufferHeight},
			Field{Key: "error", Value: err})
		return validationError("PointerEvent", "invalid pointer coordinates", err)
	}

	c.logger.Debug("Sending pointer event",
		Field{Key: "mask", Value: mask},
		Field{Key: "x", Value: x},
		Field{Key: "y", Value: y})

	var buf bytes.Buffer

	data := []interface{}{
		uint8(5),
		uint8(mask),
		x,
		y,
	}

	for _, val := range data {
		if err := binary.Write(&buf, binary.BigEndian, val); err != nil {
			c.logger.Error("Failed to write pointer event data to buffer", Field{Key: "error", Value: err})
			return networkError("PointerEvent", "failed to write pointer event data to buffer", err)
		}
	}

	if err := c.writeWithContext(c.ctx, buf.Bytes()[0:6]); err != nil {
		c.logger.Error("Failed to send pointer event", Field{Key: "error", Value: err})
		return networkError("PointerEvent", "failed to send pointer event", err)
	}

	return nil
}

// SetEncodings configures which encoding types the client supports for framebuffer updates.
// This method implements the SetEncodings message as defined in RFC 6143 Section 7.5.2,
// informing the server about the client's encoding capabilities and preferences.
//
// The server will use this information to select appropriate encodings when sending
// framebuffer updates, potentially choosing different encodings for different rectangles
// based on content characteristics and bandwidth considerations.
//
// The encodings are specified in preference order - the server will prefer encodings
// that appear earlier in the slice when multiple options are suitable. The Raw encoding
// is always supported as a fallback and does not need to be explicitly included.
//
// Parameters:
//   - encs: Slice of supported encodings in preference order (most preferred first)
//
// Returns:
//   - error: NetworkError if the encoding list cannot be sent to the server
//
// Example usage:
//
//	// Basic encoding support (Raw is always supported)
//	encodings := []Encoding{
//		&RawEncoding{},
//	}
//	err := client.SetEncodings(encodings)
//
//	// Multiple encodings in preference order
//	encodings := []Encoding{
//		&CopyRectEncoding{},   // Efficient for window movement
//		&RawEncoding{},        // Fallback for complex content
//	}
//	err := client.SetEncodings(encodings)
//
// Pseudo-encodings for additional features:
//
//	encodings := []Encoding{
//		&RawEncoding{},
//		&DesktopSizePseudoEncoding{},          // Dynamic desktop resizing
//		&QEMUExtendedKeyEventPseudoEncoding{}, // Extended keysym delivery
//		&ContinuousUpdatesPseudoEncoding{},    // Server-paced update streaming
//	}
//
// Important considerations:
// - The provided slice should not be modified after calling this method
// - Raw encoding support is mandatory and always available as fallback
// - Pseudo-encodings provide additional features beyond pixel data
// - Encoding preferences affect bandwidth usage and rendering performance
// - Some servers may not support all encoding types
//
// The method updates the connection's Encs field to reflect the configured encodings,
// which can be inspected to verify the current encoding configuration.
func (c *ClientConn) SetEncodings(encs []Encoding) error {
	// Initialize input validator for security
	validator := newInputValidator()

	// Validate encoding count to prevent excessive memory usage
	const maxEncodings = 100
	if len(encs) > maxEncodings {
		c.logger.Error("Too many encodings specified",
			Field{Key: "count", Value: len(encs)},
			Field{Key: "max", Value: maxEncodings})
		return validationError("SetEncodings", fmt.Sprintf("too many encodings: %d (max %d)", len(encs), maxEncodings), nil)
	}

	encodingTypes := make([]int32, len(encs))
	for i, enc := range encs {
		encodingType := enc.Type()

		// Validate each encoding type for security
		if err := validator.ValidateEncodingType(encodingType); err != nil {
			c.logger.Error("Invalid encoding type",
				Field{Key: "index", Value: i},
				Field{Key: "type", Value: encodingType},
				Field{Key: "error", Value: err})
			return validationError("SetEncodings", fmt.Sprintf("invalid encoding type at index %d", i), err)
		}

		encodingTypes[i] = encodingType
	}

	c.logger.Info("Setting supported encodings",
		Field{Key: "count", Value: len(encs)},
		Field{Key: "types", Value: encodingTypes})

	data := make([]interface{}, 3+len(encs))
	data[0] = uint8(2)
	data[1] = uint8(0)
	data[2] = uint16(len(encs)) // #nosec G115 - len(encs) was already validated to be <= maxEncodings (100)

	for i, enc := range encs {
		data[3+i] = enc.Type()
	}

	var buf bytes.Buffer
	for _, val := range data {
		if err := binary.Write(&buf, binary.BigEndian, val); err != nil {
			c.logger.Error("Failed to write encoding data to buffer", Field{Key: "error", Value: err})
			return networkError("SetEncodings", "failed to write encoding data to buffer", err)
		}
	}

	dataLength := 4 + (4 * len(encs))
	if err := c.writeWithContext(c.ctx, buf.Bytes()[0:dataLength]); err != nil {
		c.logger.Error("Failed to send set encodings message", Field{Key: "error", Value: err})
		return networkError("SetEncodings", "failed to send set encodings message", err)
	}

	c.Encs = encs

	return nil
}

// SetPixelFormat configures the pixel format used for framebuffer updates from the server.
// This method implements the SetPixelFormat message as defined in RFC 6143 Section 7.5.1,
// allowing the client to specify how pixel color data should be encoded in subsequent
// framebuffer updates.
//
// Changing the pixel format affects all future framebuffer updates and can be used to
// optimize for different display characteristics, color depths, or bandwidth requirements.
// The server will convert its internal pixel representation to match the requested format.
//
// When the pixel format is changed to indexed color mode (TrueColor=false), the
// connection's color map is automatically reset, and the server may send
// SetColorMapEntries messages to populate the new color map.
//
// Parameters:
//   - format: The desired pixel format specification
//
// Returns:
//   - error: EncodingError if the format cannot be encoded, NetworkError for transmission issues
//
// Example usage:
//
//	// 32-bit true color RGBA (high quality, more bandwidth)
//	format := &PixelFormat{
//		BPP: 32, Depth: 24, BigEndian: false, TrueColor: true,
//		RedMax: 255, GreenMax: 255, BlueMax: 255,
//		RedShift: 16, GreenShift: 8, BlueShift: 0,
//	}
//	err := client.SetPixelFormat(format)
//
//	// 16-bit true color RGB565 (balanced quality/bandwidth)
//	format := &PixelFormat{
//		BPP: 16, Depth: 16, BigEndian: false, TrueColor: true,
//		RedMax: 31, GreenMax: 63, BlueMax: 31,
//		RedShift: 11, GreenShift: 5, BlueShift: 0,
//	}
//	err := client.SetPixelFormat(format)
//
//	// 8-bit indexed color (low bandwidth, limited colors)
//	format := &PixelFormat{
//		BPP: 8, Depth: 8, BigEndian: false, TrueColor: false,
//	}
//	err := client.SetPixelFormat(format)
//
// Bandwidth optimization:
//
//	// For slow connections - use 8-bit indexed color
//	lowBandwidthFormat := &PixelFormat{
//		BPP: 8, Depth: 8, TrueColor: false,
//	}
//
//	// For fast connections - use 32-bit true color
//	highQualityFormat := &PixelFormat{
//		BPP: 32, Depth: 24, TrueColor: true,
//		RedMax: 255, GreenMax: 255, BlueMax: 255,
//		RedShift: 16, GreenShift: 8, BlueShift: 0,
//	}
//
// Color depth considerations:
// - 32-bit: Best quality, highest bandwidth usage
// - 16-bit: Good quality, moderate bandwidth usage
// - 8-bit: Limited colors (256), lowest bandwidth usage
// - True color: Direct RGB values, more colors available
// - Indexed color: Uses color map, limited to 256 simultaneous colors
//
// Performance impact:
// - Higher bit depths provide better color accuracy but use more bandwidth
// - Indexed color modes require color map synchronization
// - Format changes may cause temporary visual artifacts during transition
// - Some servers may perform better with specific pixel formats
//
// The method automatically resets the color map when switching to indexed color mode,
// as the previous color map may not be compatible with the new pixel format.
func (c *ClientConn) SetPixelFormat(format *PixelFormat) error {
	// Initialize input validator for security
	validator := newInputValidator()

	// Validate pixel format before sending to server
	if err := validator.ValidatePixelFormat(format); err != nil {
		c.logger.Error("Invalid pixel format specified",
			Field{Key: "pixel_format", Value: format},
			Field{Key: "error", Value: err})
		return validationError("SetPixelFormat", "invalid pixel format", err)
	}

	c.logger.Info("Setting pixel format",
		Field{Key: "bpp", Value: format.BPP},
		Field{Key: "depth", Value: format.Depth},
		Field{Key: "true_color", Value: format.TrueColor})

	var keyEvent [20]byte
	keyEvent[0] = 0

	pfBytes, err := writePixelFormat(format)
	if err != nil {
		return encodingError("SetPixelFormat", "failed to encode pixel format", err)
	}

	// Copy the pixel format bytes into the proper slice location
	copy(keyEvent[4:], pfBytes)

	// Send the data down the connection
	if err := c.writeWithContext(c.ctx, keyEvent[:]); err != nil {
		return networkError("SetPixelFormat", "failed to send pixel format message", err)
	}

	// Reset the color map as according to RFC.
	var newColorMap [256]Color
	c.ColorMap = newColorMap

	return nil
}

// clientServerInit performs 7.3.1 ClientInit and 7.3.2 ServerInit, the
// shared tail of the handshake once security negotiation has completed.
func (c *ClientConn) clientServerInit(ctx context.Context) error {
	validator := newInputValidator()

	var sharedFlag uint8 = 1
	if c.config.Exclusive {
		sharedFlag = 0
	}

	c.logger.Debug("Sending client init message",
		Field{Key: "shared", Value: sharedFlag == 1})
	if err := c.writeBinaryWithContext(ctx, sharedFlag); err != nil {
		c.logger.Error("Failed to send client init message", Field{Key: "error", Value: err})
		return networkError("handshake", "failed to send client init message", err)
	}

	// 7.3.2 ServerInit
	var width, height uint16
	if err := c.readBinaryWithContext(ctx, &width); err != nil {
		return networkError("handshake", "failed to read framebuffer width", err)
	}

	if err := c.readBinaryWithContext(ctx, &height); err != nil {
		return networkError("handshake", "failed to read framebuffer height", err)
	}

	// Validate framebuffer dimensions for security
	if err := validator.ValidateFramebufferDimensions(width, height); err != nil {
		c.logger.Error("Invalid framebuffer dimensions received from server",
			Field{Key: "width", Value: width},
			Field{Key: "height", Value: height},
			Field{Key: "error", Value: err})
		return protocolError("handshake", "server sent invalid framebuffer dimensions", err)
	}

	// Read the pixel format
	var pixelFormat PixelFormat
	if err := c.readPixelFormatWithContext(ctx, &pixelFormat); err != nil {
		return protocolError("handshake", "failed to read pixel format", err)
	}

	// Update connection state with mutex protection
	c.mu.Lock()
	c.FrameBufferWidth = width
	c.FrameBufferHeight = height
	c.PixelFormat = pixelFormat
	c.mu.Unlock()

	// Validate pixel format for security
	if err := validator.ValidatePixelFormat(&c.PixelFormat); err != nil {
		c.logger.Error("Invalid pixel format received from server",
			Field{Key: "pixel_format", Value: c.PixelFormat},
			Field{Key: "error", Value: err})
		return protocolError("handshake", "server sent invalid pixel format", err)
	}

	// Create the connection-owned framebuffer surface now that its
	// dimensions and pixel format are known, per the host graphics
	// contract's create_surface. Left nil when no GraphicsHost is attached.
	if host, _ := c.graphicsHostAndFramebuffer(); host != nil {
		surface, err := host.CreateSurface(int(width), int(height), pixelFormat)
		if err != nil {
			c.logger.Error("Failed to create framebuffer surface",
				Field{Key: "width", Value: width},
				Field{Key: "height", Value: height},
				Field{Key: "error", Value: err})
		} else {
			c.setFramebuffer(surface)
		}
	}

	var nameLength uint32
	if err := c.readBinaryWithContext(ctx, &nameLength); err != nil {
		return networkError("handshake", "failed to read desktop name length", err)
	}

	// Validate desktop name length to prevent buffer overflow
	const maxDesktopNameLength = 1024 * 1024
	if err := validator.ValidateMessageLength(nameLength, maxDesktopNameLength); err != nil {
		c.logger.Error("Invalid desktop name length received from server",
			Field{Key: "length", Value: nameLength},
			Field{Key: "error", Value: err})
		return protocolError("handshake", "server sent invalid desktop name length", err)
	}

	nameBytes := make([]uint8, nameLength)
	if err := c.readBinaryWithContext(ctx, &nameBytes); err != nil {
		return networkError("handshake", "failed to read desktop name", err)
	}

	// Validate and sanitize desktop name
	desktopNameStr := string(nameBytes)
	if err := validator.ValidateTextData(desktopNameStr, int(maxDesktopNameLength)); err != nil {
		c.logger.Warn("Invalid desktop name received from server, sanitizing",
			Field{Key: "original_name", Value: desktopNameStr},
			Field{Key: "error", Value: err})
		desktopNameStr = validator.SanitizeText(desktopNameStr)
	}

	// Update desktop name with mutex protection
	c.mu.Lock()
	c.DesktopName = desktopNameStr
	c.mu.Unlock()

	// Get current values for logging (thread-safe)
	logWidth, logHeight := c.GetFrameBufferSize()
	logDesktopName := c.GetDesktopName()
	logPixelFormat := c.GetPixelFormat()

	c.logger.Info("VNC handshake completed successfully",
		Field{Key: "desktop_name", Value: logDesktopName},
		Field{Key: "framebuffer_width", Value: logWidth},
		Field{Key: "framebuffer_height", Value: logHeight},
		Field{Key: "pixel_format_bpp", Value: logPixelFormat.BPP})

	return nil
}

// mainLoop reads messages sent from the server and routes them to the
// proper channels for users of the client to read.
func (c *ClientConn) mainLoop() {
	defer c.Close()

	c.logger.Info("Starting message processing loop")

	metrics := MetricsCollector(&NoOpMetrics{})
	if c.config.Metrics != nil {
		metrics = c.config.Metrics
	}

	// Build the map of available server messages
	typeMap := make(map[uint8]ServerMessage)

	defaultMessages := []ServerMessage{
		new(FramebufferUpdateMessage),
		new(SetColorMapEntriesMessage),
		new(BellMessage),
		new(ServerCutTextMessage),
	}

	for _, msg := range defaultMessages {
		typeMap[msg.Type()] = msg
	}

	framebufferUpdateType := new(FramebufferUpdateMessage).Type()

	if c.config.ServerMessages != nil {
		for _, msg := range c.config.ServerMessages {
			typeMap[msg.Type()] = msg
		}
	}

	for {
		// Check if context is cancelled before reading
		select {
		case <-c.ctx.Done():
			c.logger.Info("Message processing loop cancelled by context")
			c.publishResult(Result{Code: ResultServerDisconnect, Err: c.ctx.Err()})
			return
		default:
		}

		var messageType uint8
		if err := c.readBinaryWithContext(c.ctx, &messageType); err != nil {
			if err == context.Canceled || err == context.DeadlineExceeded {
				c.logger.Info("Message processing loop cancelled", Field{Key: "error", Value: err})
			} else {
				c.logger.Debug("Connection closed or error reading message type", Field{Key: "error", Value: err})
			}
			metrics.Counter("vnc.receive.closed")
			c.publishResult(Result{Code: ResultServerDisconnect, Err: err})
			break
		}

		c.logger.Debug("Received server message", Field{Key: "type", Value: messageType})

		msg, ok := typeMap[messageType]
		if !ok {
			c.logger.Error("Unsupported message type received", Field{Key: "type", Value: messageType})
			metrics.Counter("vnc.receive.unsupported_message_type")
			c.publishResult(Result{Code: ResultUnimplemented})
			break
		}

		parsedMsg, err := msg.Read(c, c.c)
		if err != nil {
			c.logger.Error("Failed to parse server message",
				Field{Key: "type", Value: messageType},
				Field{Key: "error", Value: err})
			metrics.Counter("vnc.receive.parse_error")
			c.publishResult(shutdownResultFor(err))
			break
		}

		metrics.Counter("vnc.receive.messages", "type", messageType)
		c.logger.Debug("Successfully parsed server message",
			Field{Key: "type", Value: messageType},
			Field{Key: "message_type", Value: fmt.Sprintf("%T", parsedMsg)})

		if c.config.AutoRequestUpdates && messageType == framebufferUpdateType {
			c.rearmUpdateRequest()
		}

		if c.config.ServerMessageCh == nil {
			c.logger.Debug("No server message channel configured, discarding message")
			continue
		}

		// Try to send message to channel with context cancellation support
		select {
		case c.config.ServerMessageCh <- parsedMsg:
			// Message sent successfully
		case <-c.ctx.Done():
			c.logger.Info("Message processing loop cancelled while sending message")
			c.publishResult(Result{Code: ResultServerDisconnect, Err: c.ctx.Err()})
			return
		}
	}

	c.logger.Info("Message processing loop ended")
	c.publishResult(Result{Code: ResultServerDisconnect})
}

// rearmUpdateRequest paces itself to the connection's configured FPS, then
// issues the next incremental full-screen FramebufferUpdateRequest. Errors
// are logged, not returned, since the receive loop must keep running
// regardless of a transient re-arm failure.
func (c *ClientConn) rearmUpdateRequest() {
	if c.pacer != nil {
		if err := c.pacer.Wait(c.ctx); err != nil {
			return
		}
	}

	width, height := c.GetFrameBufferSize()
	if err := c.FramebufferUpdateRequest(true, 0, 0, width, height); err != nil {
		c.logger.Debug("Failed to re-arm framebuffer update request", Field{Key: "error", Value: err})
	}
}

// readErrorReason reads an error reason string from the server.
func (c *ClientConn) readErrorReason() string {
	// Initialize input validator for security
	validator := newInputValidator()

	var reasonLen uint32
	if err := binary.Read(c.c, binary.BigEndian, &reasonLen); err != nil {
		return "<failed to read error reason length>"
	}

	// Validate error reason length to prevent buffer overflow
	const maxErrorReasonLength = 64 * 1024
	if err := validator.ValidateMessageLength(reasonLen, maxErrorReasonLength); err != nil {
		c.logger.Warn("Invalid error reason length received from server",
			Field{Key: "length", Value: reasonLen},
			Field{Key: "error", Value: err})
		return "<invalid error reason length>"
	}

	reason := make([]uint8, reasonLen)
	if err := binary.Read(c.c, binary.BigEndian, &reason); err != nil {
		return "<failed to read error reason>"
	}

	// Validate and sanitize error reason text
	reasonText := string(reason)
	if err := validator.ValidateTextData(reasonText, int(maxErrorReasonLength)); err != nil {
		c.logger.Warn("Invalid error reason text received from server, sanitizing",
			Field{Key: "original_text", Value: reasonText},
			Field{Key: "error", Value: err})
		reasonText = validator.SanitizeText(reasonText)
	}

	return reasonText
}

// Context-aware network operation helpers

// readWithContext reads data from the connection with context cancellation support.
func (c *ClientConn) readWithContext(ctx context.Context, buf []byte) error {
	done := make(chan error, 1)

	go func() {
		_, err := io.ReadFull(c.c, buf)
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// writeWithContext writes data to the connection with context cancellation support.
func (c *ClientConn) writeWithContext(ctx context.Context, data []byte) error {
	done := make(chan error, 1)

	go func() {
		_, err := c.c.Write(data)
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// readBinaryWithContext reads binary data with context cancellation support.
func (c *ClientConn) readBinaryWithContext(ctx context.Context, data interface{}) error {
	done := make(chan error, 1)

	go func() {
		done <- binary.Read(c.c, binary.BigEndian, data)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// writeBinaryWithContext writes binary data with context cancellation support.
func (c *ClientConn) writeBinaryWithContext(ctx context.Context, data interface{}) error {
	done := make(chan error, 1)

	go func() {
		done <- binary.Write(c.c, binary.BigEndian, data)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// readPixelFormatWithContext reads pixel format data with context cancellation support.
func (c *ClientConn) readPixelFormatWithContext(ctx context.Context, pf *PixelFormat) error {
	done := make(chan error, 1)

	go func() {
		done <- readPixelFormat(c.c, pf)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetFrameBufferSize returns the current framebuffer dimensions in a thread-safe manner.
func (c *ClientConn) GetFrameBufferSize() (width, height uint16) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.FrameBufferWidth, c.FrameBufferHeight
}

// GetDesktopName returns the desktop name in a thread-safe manner.
func (c *ClientConn) GetDesktopName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.DesktopName
}

// GetPixelFormat returns a copy of the current pixel format in a thread-safe manner.
func (c *ClientConn) GetPixelFormat() PixelFormat {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.PixelFormat
}

// GetFramebuffer returns the connection-owned framebuffer surface, or nil if
// no GraphicsHost has been attached. The receive task is the only writer;
// the host may read from the returned Surface for rendering but must not
// mutate it concurrently with the receive task (lock it per the Surface
// contract first).
func (c *ClientConn) GetFramebuffer() Surface {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.framebuffer
}

// graphicsHostAndFramebuffer returns the attached GraphicsHost and the
// current framebuffer surface, if any, in one locked read.
func (c *ClientConn) graphicsHostAndFramebuffer() (GraphicsHost, Surface) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.graphicsHost, c.framebuffer
}

// setFramebuffer replaces the connection-owned framebuffer surface.
func (c *ClientConn) setFramebuffer(s Surface) {
	c.mu.Lock()
	c.framebuffer = s
	c.mu.Unlock()
}
