package database

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// ConnectNATS opens a NATS connection that keeps reconnecting after the first success.
func ConnectNATS(url, name string) (*nats.Conn, error) {
	if url == "" {
		return nil, fmt.Errorf("nats url must not be empty")
	}

	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to nats: %w", err)
	}

	return conn, nil
}
