// Package events publishes game lifecycle events to loosely coupled handlers.
//
// Controllers emit GameEvents without knowing who consumes them; the server
// registers a handler that writes them to the structured log. The primary
// components are:
// - GameEvent: something that happened in one game
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
