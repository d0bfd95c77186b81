// Package shutdown runs cleanup hooks when the process receives SIGINT or
// SIGTERM.
//
// Usage:
//
//	h := shutdown.NewHandler(15*time.Second, logger)
//	h.OnShutdown("http", srv.Shutdown)
//	h.OnShutdown("storage", closeStores)
//	err := h.Wait()
//
// Hooks run in reverse registration order under a shared deadline.
package shutdown
