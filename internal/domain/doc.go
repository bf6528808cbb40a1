// Package domain defines core data models and interfaces shared across phyboot.
// It contains plain types (states, markers, commands) and contracts (interfaces) only.
package domain
