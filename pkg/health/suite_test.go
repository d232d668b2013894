package health

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuitePassesWhenAllChecksHealthy(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	suite := Suite{Factories: []Factory{TCPPort(port)}}

	outcome := suite.Check(context.Background(), "127.0.0.1")
	assert.True(t, outcome.Pass)
}

func TestSuiteFailsFastOnFirstFailingCheck(t *testing.T) {
	suite := Suite{Factories: []Factory{
		TCPPort(1), // port 1 is reserved and refuses connections
		ExecCommand("true"),
	}}

	outcome := suite.Check(context.Background(), "127.0.0.1")
	assert.False(t, outcome.Pass)
	assert.Contains(t, outcome.Reason, "tcp check failed")
}

func TestExecCommandSubstitutesHostPlaceholder(t *testing.T) {
	factory := ExecCommand("echo", "{host}")
	checker := factory("node-01").(*ExecChecker)
	assert.Equal(t, []string{"echo", "node-01"}, checker.Command)
}
