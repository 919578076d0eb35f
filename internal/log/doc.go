// Package log provides simple leveled logging for contactd.
//
// It implements a lightweight logging system with colored console output
// and four levels: DEBUG, INFO, WARN, and ERROR. Debug messages are only
// shown in verbose mode. Errors always go to stderr; other levels go to
// stdout unless stderr output is forced.
//
// Basic usage:
//
//	log.Infof("Starting server on %s", addr)
//	log.Warnf("Store file not found at %s, starting empty", path)
//	log.Errorf("Failed to persist contacts: %v", err)
//
// Enabling verbose mode for debug output:
//
//	log.SetVerbose(true)
//	log.Debugf("Loaded %d contacts", len(contacts))
//
// Fatal errors that exit the application:
//
//	if err != nil {
//	    log.Fatalf("Cannot read config: %v", err) // Exits with code 1
//	}
package log
