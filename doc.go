// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

// Package vnc implements a VNC (Virtual Network Computing) client library for Go.
//
// This library provides a complete implementation of the VNC protocol as defined
// in RFC 6143, enabling Go applications to connect to and interact with VNC servers.
//
// # Basic Usage
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
//	config := &vnc.ClientConfig{
//		Auth: []vnc.ClientAuth{&vnc.ClientAuthNone{}},
//	}
//
//	client, err := vnc.ClientWithContext(ctx, conn, config)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
// # Message Handling
//
//	msgCh := make(chan vnc.ServerMessage, 100)
//	config.ServerMessageCh = msgCh
//
//	go func() {
//		for msg := range msgCh {
//			switch m := msg.(type) {
//			case *vnc.FramebufferUpdateMessage:
//				// Handle framebuffer updates
//			case *vnc.BellMessage:
//				// Handle bell notifications
//			}
//		}
//	}()
//
// # Input Events
//
//	// Send keyboard input
//	client.KeyEvent(0x0061, true)  // 'a' key down
//	client.KeyEvent(0x0061, false) // 'a' key up
//
//	// Send mouse input
//	client.PointerEvent(vnc.ButtonLeft, 100, 100) // Click
//	client.PointerEvent(0, 100, 100)              // Release
//
// # Error Handling
//
//	if vnc.IsVNCError(err, vnc.ErrAuthentication) {
//		log.Printf("Authentication failed: %v", err)
//	}
//
// Only security type 1 (None) is built in; additional authentication
// schemes can be registered on an AuthRegistry and supplied via
// ClientConfig.AuthRegistry.
//
// # Connecting
//
// Connect, for callers that don't already own a net.Conn, combines
// dialing, the handshake, the SetEncodings advertisement, and the initial
// framebuffer update request, then keeps the update cycle running by
// re-requesting incremental updates at the configured FPS:
//
//	client, err := vnc.Connect(ctx, "tcp", "localhost",
//		vnc.WithAuth(&vnc.ClientAuthNone{}),
//		vnc.WithShutdownChannel(make(chan vnc.Result, 1)),
//	)
//	...
//	result := client.Wait(ctx)
//
// # Host Keyboard and Pointer Input
//
// SendKey translates a host keycode and shift state to the right X11
// keysym (or QEMU extended key event, when the server advertised
// support) and emits the corresponding wire message. PointerEvent and
// the ScrollUp/Down/Left/Right helpers cover pointer input, including
// wheel events as a synthetic press/release pair.
//
// # Graphics Host
//
// A GraphicsHost (WithGraphicsHost) receives DesktopSize resize
// notifications and supplies surfaces for encodings to blit into;
// NewMemGraphicsHost is a ready-made in-memory implementation.

package vnc
