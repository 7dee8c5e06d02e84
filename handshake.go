// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Ryan Johnson

package vnc

import (
	"context"
	"fmt"
)

const pvLen = 12

// parseProtocolVersion parses a VNC protocol version string.
func parseProtocolVersion(pv []byte) (uint, uint, error) {
	var major, minor uint

	if len(pv) < pvLen {
		return 0, 0, protocolError("parseProtocolVersion",
			fmt.Sprintf("protocol version message too short (%v < %v)", len(pv), pvLen), nil)
	}

	l, err := fmt.Sscanf(string(pv), "RFB %d.%d\n", &major, &minor)
	if l != 2 {
		return 0, 0, protocolError("parseProtocolVersion", "invalid protocol version format", nil)
	}
	if err != nil {
		return 0, 0, protocolError("parseProtocolVersion", "failed to parse protocol version", err)
	}

	return major, minor, nil
}

// rfbDialect identifies which wire shape the security handshake takes, per
// RFC 6143 Section 7.1.2. 3.3 and earlier were superseded by 3.7's
// multi-type negotiation; 3.8 added the SecurityResult message on top of 3.7.
type rfbDialect int

const (
	dialect33 rfbDialect = iota
	dialect37
	dialect38
)

// negotiateDialect maps a server-advertised protocol version to the wire
// shape the client must speak. Anything 3.8 or newer is treated as 3.8;
// 3.7 uses its own shape; 3.3 through 3.6 use the 3.3 shape; anything under
// 3.3 is unsupported.
func negotiateDialect(major, minor uint) (rfbDialect, error) {
	if major < 3 {
		return 0, unsupportedError("handshake", fmt.Sprintf("unsupported major version, less than 3: %d", major), nil)
	}
	if major == 3 {
		switch {
		case minor < 3:
			return 0, unsupportedError("handshake", fmt.Sprintf("unsupported minor version, less than 3: %d", minor), nil)
		case minor == 3:
			return dialect33, nil
		case minor < 7:
			return dialect33, nil
		case minor == 7:
			return dialect37, nil
		}
	}
	return dialect38, nil
}

// handshakeWithContext performs the VNC handshake with context support for cancellation.
// This method handles protocol version negotiation, security handshake, authentication,
// and initialization while respecting context cancellation and timeouts. It speaks
// whichever of the 3.3/3.7/3.8 wire shapes the server advertises rather than assuming 3.8.
func (c *ClientConn) handshakeWithContext(ctx context.Context) error {
	c.logger.Info("Starting VNC handshake")

	validator := newInputValidator()

	var protocolVersion [pvLen]byte
	if err := c.readWithContext(ctx, protocolVersion[:]); err != nil {
		c.logger.Error("Failed to read protocol version from server", Field{Key: "error", Value: err})
		return networkError("handshake", "failed to read protocol version from server", err)
	}

	if err := validator.ValidateProtocolVersion(string(protocolVersion[:])); err != nil {
		c.logger.Error("Invalid protocol version format received from server",
			Field{Key: "version", Value: string(protocolVersion[:])},
			Field{Key: "error", Value: err})
		return protocolError("handshake", "server sent invalid protocol version format", err)
	}

	maxMajor, maxMinor, err := parseProtocolVersion(protocolVersion[:])
	if err != nil {
		c.logger.Error("Failed to parse protocol version", Field{Key: "error", Value: err})
		return err
	}

	c.logger.Info("Received protocol version",
		Field{Key: "major", Value: maxMajor},
		Field{Key: "minor", Value: maxMinor})

	dialect, err := negotiateDialect(maxMajor, maxMinor)
	if err != nil {
		c.logger.Error("Unsupported protocol version",
			Field{Key: "major", Value: maxMajor},
			Field{Key: "minor", Value: maxMinor})
		return err
	}

	responseVersion := []byte("RFB 003.008\n")
	switch dialect {
	case dialect33:
		responseVersion = []byte("RFB 003.003\n")
	case dialect37:
		responseVersion = []byte("RFB 003.007\n")
	}

	c.logger.Debug("Sending protocol version response", Field{Key: "version", Value: string(responseVersion)})
	if err = c.writeWithContext(ctx, responseVersion); err != nil {
		c.logger.Error("Failed to send protocol version response", Field{Key: "error", Value: err})
		return networkError("handshake", "failed to send protocol version response", err)
	}

	switch dialect {
	case dialect33:
		return c.handshakeSecurity33(ctx)
	case dialect37:
		return c.handshakeSecurity37(ctx)
	default:
		return c.handshakeSecurity38(ctx)
	}
}

// handshakeSecurity33 handles the 3.3 security handshake, in which the
// server unilaterally picks a single security type with no negotiation.
// The 3.3 security path is not implemented: the connection fails with an
// unsupported error rather than guessing at server-directed semantics.
func (c *ClientConn) handshakeSecurity33(_ context.Context) error {
	c.logger.Error("Protocol 3.3 security handshake is not implemented")
	return unsupportedError("handshake", "security negotiation for protocol 3.3 is not implemented", nil)
}

// handshakeSecurity37 implements the 3.7 security handshake: the server
// advertises a list of supported types and the client selects one. Unlike
// 3.8, the server does not follow authentication with a SecurityResult
// message, so the client must treat a successful type selection as implicit
// success.
func (c *ClientConn) handshakeSecurity37(ctx context.Context) error {
	auth, err := c.negotiateSecurityType(ctx)
	if err != nil {
		return err
	}

	if err := c.performAuth(ctx, auth); err != nil {
		return err
	}

	c.logger.Info("Authentication completed (protocol 3.7, no SecurityResult)")
	return c.finishAuthlessHandshake(ctx)
}

// handshakeSecurity38 implements the 3.8 security handshake: identical type
// negotiation to 3.7, followed by a mandatory SecurityResult message.
func (c *ClientConn) handshakeSecurity38(ctx context.Context) error {
	auth, err := c.negotiateSecurityType(ctx)
	if err != nil {
		return err
	}

	if err := c.performAuth(ctx, auth); err != nil {
		return err
	}

	c.logger.Debug("Reading security result")
	var securityResult uint32
	if err := c.readBinaryWithContext(ctx, &securityResult); err != nil {
		c.logger.Error("Failed to read security result", Field{Key: "error", Value: err})
		return networkError("handshake", "failed to read security result", err)
	}

	// Any non-zero SecurityResult is a failure, not just the canonical 1.
	if securityResult != 0 {
		reason := c.readErrorReason()
		c.logger.Error("Authentication failed",
			Field{Key: "result", Value: securityResult},
			Field{Key: "reason", Value: reason})
		return authenticationError("handshake", fmt.Sprintf("security handshake failed: %s", reason), nil)
	}

	c.logger.Info("Authentication successful")
	return c.finishAuthlessHandshake(ctx)
}

// negotiateSecurityType reads the server's list of supported security types
// (3.7+ wire shape), selects one via the AuthRegistry when configured or by
// scanning ClientConfig.Auth otherwise, and writes the selection back.
func (c *ClientConn) negotiateSecurityType(ctx context.Context) (ClientAuth, error) {
	validator := newInputValidator()

	c.logger.Debug("Reading security types from server")
	var numSecurityTypes uint8
	if err := c.readBinaryWithContext(ctx, &numSecurityTypes); err != nil {
		c.logger.Error("Failed to read number of security types", Field{Key: "error", Value: err})
		return nil, networkError("handshake", "failed to read number of security types", err)
	}

	if numSecurityTypes == 0 {
		reason := c.readErrorReason()
		c.logger.Error("No security types available", Field{Key: "reason", Value: reason})
		return nil, authenticationError("handshake", fmt.Sprintf("no security types available: %s", reason), nil)
	}

	securityTypes := make([]uint8, numSecurityTypes)
	if err := c.readBinaryWithContext(ctx, &securityTypes); err != nil {
		c.logger.Error("Failed to read security types", Field{Key: "error", Value: err})
		return nil, networkError("handshake", "failed to read security types", err)
	}

	if err := validator.ValidateSecurityTypes(securityTypes); err != nil {
		c.logger.Error("Invalid security types received from server",
			Field{Key: "types", Value: securityTypes},
			Field{Key: "error", Value: err})
		return nil, protocolError("handshake", "server sent invalid security types", err)
	}

	c.logger.Info("Received security types from server",
		Field{Key: "count", Value: numSecurityTypes},
		Field{Key: "types", Value: securityTypes})

	var auth ClientAuth
	var selectedSecurityType uint8

	if c.config.AuthRegistry != nil {
		c.logger.Debug("Using authentication registry for negotiation")

		var preferredOrder []uint8
		if c.config.Auth != nil {
			preferredOrder = make([]uint8, len(c.config.Auth))
			for i, authMethod := range c.config.Auth {
				preferredOrder[i] = authMethod.SecurityType()
			}
		}

		var err error
		auth, selectedSecurityType, err = c.config.AuthRegistry.NegotiateAuth(ctx, securityTypes, preferredOrder)
		if err != nil {
			c.logger.Error("Authentication registry negotiation failed",
				Field{Key: "server_types", Value: securityTypes},
				Field{Key: "error", Value: err})
			return nil, authenticationError("handshake", "authentication negotiation failed", err)
		}
	} else {
		c.logger.Debug("Using legacy authentication method selection")

		clientSecurityTypes := c.config.Auth
		if clientSecurityTypes == nil {
			clientSecurityTypes = []ClientAuth{new(ClientAuthNone)}
		}

	FindAuth:
		for _, curAuth := range clientSecurityTypes {
			for _, securityType := range securityTypes {
				if curAuth.SecurityType() == securityType {
					auth = curAuth
					selectedSecurityType = securityType
					break FindAuth
				}
			}
		}

		if auth == nil {
			c.logger.Error("No suitable authentication method found",
				Field{Key: "server_types", Value: securityTypes})
			return nil, authenticationError("handshake", fmt.Sprintf("no suitable auth schemes found. server supported: %#v", securityTypes), nil)
		}
	}

	c.logger.Info("Selected authentication method",
		Field{Key: "type", Value: selectedSecurityType},
		Field{Key: "method", Value: auth.String()})

	if err := c.writeBinaryWithContext(ctx, selectedSecurityType); err != nil {
		c.logger.Error("Failed to send selected security type", Field{Key: "error", Value: err})
		return nil, networkError("handshake", "failed to send selected security type", err)
	}

	if c.config.AuthRegistry != nil {
		if err := c.config.AuthRegistry.ValidateAuthMethod(auth); err != nil {
			c.logger.Error("Authentication method validation failed",
				Field{Key: "type", Value: selectedSecurityType},
				Field{Key: "method", Value: auth.String()},
				Field{Key: "error", Value: err})
			return nil, authenticationError("handshake", "authentication method validation failed", err)
		}
	}

	// The server's advertised security-type list has served its purpose
	// (selection and logging); clear the transient buffer rather than leave
	// it sitting in memory for the life of the connection.
	new(SecureMemory).ClearBytes(securityTypes)

	return auth, nil
}

// performAuth runs the selected authentication method's wire handshake.
func (c *ClientConn) performAuth(ctx context.Context, auth ClientAuth) error {
	c.logger.Debug("Starting authentication handshake")

	if authWithLogger, ok := auth.(interface{ SetLogger(Logger) }); ok {
		authWithLogger.SetLogger(c.logger)
	}

	if err := auth.Handshake(ctx, c.c); err != nil {
		c.logger.Error("Authentication handshake failed",
			Field{Key: "method", Value: auth.String()},
			Field{Key: "error", Value: err})
		return authenticationError("handshake", "authentication handshake failed", err)
	}

	return nil
}

// finishAuthlessHandshake performs 7.3.1 ClientInit and 7.3.2 ServerInit,
// the shared tail of all three dialects once security has been settled.
func (c *ClientConn) finishAuthlessHandshake(ctx context.Context) error {
	return c.clientServerInit(ctx)
}
