// Package logging provides structured logging using uber/zap.
//
// Production mode writes JSON, development mode writes colored console
// output. Domain packages take a plain *zap.Logger; the server hands them
// named children via Component.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Server starting", zap.String("port", "8000"))
//	ctrl.WithLogger(logger.Component("desktop"))
package logging
