//go:build !unix

package server

import (
	"net"
	"strconv"

	"github.com/trsv-dev/simple-web-server/internal/logger"
)

// listen На платформах без x/sys/unix backlog задаёт операционная система.
func listen(address string, port, backlog int) (net.Listener, error) {
	logger.Log.Debug("backlog не поддерживается на этой платформе", logger.Int("backlog", backlog))

	return net.Listen("tcp", net.JoinHostPort(address, strconv.Itoa(port)))
}
