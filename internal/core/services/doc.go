// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services never touch the network or the filesystem directly;
// everything observable goes through a driven port.
package services
