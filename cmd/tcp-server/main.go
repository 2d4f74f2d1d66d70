// TCP ingestion server for MV77G-class tracking terminals
//
// Accepts long-lived device connections, runs one protocol session per
// connection, prints decoded events in the configured format, keeps a
// TTL store of last known positions, and exposes Prometheus metrics.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/xid"

	"github.com/intelcon-group/mv77g-jt808/pkg/jt808"
)

// Configuration flags; each falls back to an environment variable so
// container deployments need no argv plumbing.
var (
	port        = flag.Int("port", envInt("LISTEN_PORT", 7018), "TCP listen port")
	printMode   = flag.String("mode", envString("PRINT_MODE", "line"), "event output format: line, json or table")
	logHex      = flag.Bool("hex", envBool("LOG_HEX"), "enable verbose hex tracing of frames")
	token       = flag.String("token", envString("REGISTER_TOKEN", "OK"), "authentication token echoed in registration responses")
	metricsAddr = flag.String("metrics", envString("METRICS_ADDR", ""), "Prometheus listen address (empty disables)")
	timeout     = flag.Duration("timeout", envDuration("READ_TIMEOUT", 5*time.Minute), "connection read timeout")
	hqKmh       = flag.Bool("hq-kmh", envBool("HQ_SPEED_KMH"), "treat the legacy ASCII speed field as km/h instead of knots")
)

func main() {
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)

	printer, err := newPrinter(*printMode, os.Stdout)
	if err != nil {
		log.Fatalf("Invalid print mode: %v", err)
	}

	store := newPositionStore()
	sink := newServerSink(printer, store)

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr)
	}

	printBanner()

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", *port))
	if err != nil {
		log.Printf("Error starting TCP server: %v", err)
		os.Exit(1)
	}
	defer listener.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println(strings.Repeat("=", 60))
		log.Println("Shutting down server...")
		store.dump()
		listener.Close()
		os.Exit(0)
	}()

	log.Printf("Server started. Waiting for connections...")

	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Printf("Error accepting connection: %v", err)
			continue
		}
		go handleConnection(conn, sink)
	}
}

func printBanner() {
	log.Println(strings.Repeat("=", 60))
	log.Println("MV77G Telematics Ingestion Server")
	log.Println(strings.Repeat("=", 60))
	log.Printf("Port:          %d", *port)
	log.Printf("Print Mode:    %s", *printMode)
	log.Printf("Hex Trace:     %v", *logHex)
	log.Printf("Metrics:       %s", orNone(*metricsAddr))
	log.Printf("Read Timeout:  %v", *timeout)
	log.Printf("HQ Speed Unit: %s", hqSpeedUnit())
	log.Println(strings.Repeat("=", 60))
}

func handleConnection(conn net.Conn, sink *serverSink) {
	defer conn.Close()

	connID := xid.New().String()
	remote := conn.RemoteAddr().String()
	connectedAt := time.Now()

	connectionsAccepted.Inc()
	connectionsActive.Inc()
	defer connectionsActive.Dec()

	log.Printf(">>> [%s] New connection from %s", connID, remote)

	opts := []jt808.Option{
		jt808.WithRegisterToken(*token),
		jt808.WithLogger(log.Default()),
	}
	if *logHex {
		opts = append(opts, jt808.WithHexTrace())
	}
	if *hqKmh {
		opts = append(opts, jt808.WithHQSpeedInKmh())
	}

	writer := &countingWriter{w: conn}
	session := jt808.NewSession(writer, sink, remote, opts...)

	readBuf := make([]byte, 1024)
	conn.SetReadDeadline(time.Now().Add(*timeout))

	for {
		n, err := conn.Read(readBuf)
		if err != nil {
			if err != io.EOF {
				log.Printf("[%s] Read error: %v", connLabel(connID, session), err)
			} else {
				log.Printf("[%s] Client disconnected", connLabel(connID, session))
			}
			break
		}

		bytesRead.Add(float64(n))
		conn.SetReadDeadline(time.Now().Add(*timeout))

		if err := session.Feed(readBuf[:n]); err != nil {
			log.Printf("[%s] Write error: %v", connLabel(connID, session), err)
			break
		}
	}

	duration := time.Since(connectedAt)
	log.Printf("<<< [%s] Connection closed. Duration: %s, Responses: %d",
		connLabel(connID, session), duration.Round(time.Second), writer.frames())

	if t := session.Terminal(); t != "" {
		if row, ok := sink.store.last(t); ok {
			log.Printf("<<< [%s] Last position: (%.6f, %.6f) at %s",
				connLabel(connID, session), row.Latitude, row.Longitude, row.Time.Format(time.RFC3339))
		}
	}
}

// connLabel prefers the terminal id once the device has identified itself
func connLabel(connID string, session *jt808.Session) string {
	if t := session.Terminal(); t != "" {
		return connID + "/" + t
	}
	return connID
}

// countingWriter counts response frames on their way out
type countingWriter struct {
	w     io.Writer
	count int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	if err == nil {
		atomic.AddInt64(&c.count, 1)
		responsesWritten.Inc()
	}
	return n, err
}

func (c *countingWriter) frames() int64 {
	return atomic.LoadInt64(&c.count)
}

func hqSpeedUnit() string {
	if *hqKmh {
		return "km/h"
	}
	return "knots"
}

func orNone(s string) string {
	if s == "" {
		return "(disabled)"
	}
	return s
}

// Environment fallbacks for flag defaults

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
