package notification

import (
	"bufio"
	"context"
	"net"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listen starts a TCP server on a free port and runs serve for every
// accepted connection.
func listen(t *testing.T, serve func(net.Conn)) (host, port string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serve(conn)
		}
	}()

	host, port, err = net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	return host, port
}

func TestSMTPNotifierGivesUpOnSilentServer(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	host, port := listen(t, func(conn net.Conn) {
		defer conn.Close()
		<-release
	})

	ap, b := sample()
	n := NewSMTPNotifier(SMTPConfig{Host: host, Port: port, Timeout: 5 * time.Second}, "Shop")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	res := n.NotifyConfirmed(ctx, ap, b)

	assert.False(t, res.OK())
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSMTPNotifierTimeoutAppliesWithoutDeadline(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	host, port := listen(t, func(conn net.Conn) {
		defer conn.Close()
		<-release
	})

	ap, b := sample()
	n := NewSMTPNotifier(SMTPConfig{Host: host, Port: port, Timeout: 200 * time.Millisecond}, "Shop")

	start := time.Now()
	res := n.NotifyCancelled(context.Background(), ap, b)

	assert.False(t, res.OK())
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSMTPNotifierTalksSMTP(t *testing.T) {
	got := make(chan string, 1)

	host, port := listen(t, func(conn net.Conn) {
		defer conn.Close()
		tp := textproto.NewConn(conn)

		_ = tp.PrintfLine("220 mail.test ready")
		var data strings.Builder
		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			switch verb := strings.ToUpper(strings.Fields(line + " x")[0]); verb {
			case "EHLO", "HELO":
				_ = tp.PrintfLine("250 mail.test")
			case "MAIL", "RCPT":
				data.WriteString(line + "\n")
				_ = tp.PrintfLine("250 ok")
			case "DATA":
				_ = tp.PrintfLine("354 go ahead")
				body, err := tp.ReadDotBytes()
				if err != nil {
					return
				}
				data.Write(body)
				_ = tp.PrintfLine("250 queued")
			case "QUIT":
				_ = tp.PrintfLine("221 bye")
				got <- data.String()
				return
			default:
				_ = tp.PrintfLine("502 not implemented")
			}
		}
	})

	ap, b := sample()
	n := NewSMTPNotifier(SMTPConfig{Host: host, Port: port, From: "shop@example.com"}, "Shop")

	res := n.NotifyReceived(context.Background(), ap, b)
	require.NoError(t, res.Err)

	select {
	case transcript := <-got:
		assert.Contains(t, transcript, "MAIL FROM:<shop@example.com>")
		assert.Contains(t, transcript, "RCPT TO:<ann@example.com>")
		assert.Contains(t, transcript, "Subject: =?utf-8?q?")
		assert.Contains(t, transcript, "Dear Ann")
	case <-time.After(2 * time.Second):
		t.Fatal("server never saw QUIT")
	}
}

func TestSMTPNotifierNeedsAuthSupportForCredentials(t *testing.T) {
	host, port := listen(t, func(conn net.Conn) {
		defer conn.Close()
		r := bufio.NewReader(conn)
		_, _ = conn.Write([]byte("220 mail.test ready\r\n"))
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			if strings.HasPrefix(strings.ToUpper(line), "QUIT") {
				_, _ = conn.Write([]byte("221 bye\r\n"))
				return
			}
			_, _ = conn.Write([]byte("250 mail.test\r\n"))
		}
	})

	ap, b := sample()
	n := NewSMTPNotifier(SMTPConfig{Host: host, Port: port, User: "shop", Pass: "pw"}, "Shop")

	res := n.NotifyConfirmed(context.Background(), ap, b)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "AUTH")
}
