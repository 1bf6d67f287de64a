package control

import (
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// Call sends one request to the daemon socket and decodes the reply into out.
func Call(socket string, req Request, timeout time.Duration, out any) error {
	conn, err := net.DialTimeout("unix", socket, 2*time.Second)
	if err != nil {
		return fmt.Errorf("cannot connect to daemon: %w", err)
	}
	defer conn.Close()
	if timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(timeout))
	}
	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return err
	}
	if err := json.NewDecoder(conn).Decode(out); err != nil {
		return fmt.Errorf("read daemon reply: %w", err)
	}
	return nil
}
