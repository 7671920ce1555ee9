//go:build !debug

package highlight

const debugChecks = false
