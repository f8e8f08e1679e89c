package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"matchbook/internal/engine"
	"matchbook/internal/wire"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:8000", "address of the exchange server")
	action := flag.String("action", "place", "action to perform: ['place', 'cancel', 'modify', 'log']")

	sideStr := flag.String("side", "buy", "order side: 'buy' or 'sell'")
	typeStr := flag.String("type", "gtc", "order type: 'market', 'gtc', 'gteod', 'fok', 'fak'")
	price := flag.Int("price", 100, "limit price")
	qtyStr := flag.String("qty", "10", "quantity or comma-separated list (e.g. 10,20,50)")
	orderID := flag.Uint64("order-id", 0, "order id to cancel/modify")

	flag.Parse()

	conn, err := net.Dial("tcp", *serverAddr)
	if err != nil {
		log.Fatalf("failed to connect to server at %s: %v", *serverAddr, err)
	}
	defer conn.Close()
	fmt.Printf("connected to %s\n", *serverAddr)

	go readReports(conn)

	side := engine.Buy
	if strings.ToLower(*sideStr) == "sell" {
		side = engine.Sell
	}
	orderType := parseOrderType(*typeStr)

	switch strings.ToLower(*action) {
	case "place":
		for _, qty := range parseQuantities(*qtyStr) {
			payload := wire.EncodeNewOrder(engine.Equities, orderType, side, int32(*price), qty)
			if err := sendFrame(conn, payload); err != nil {
				log.Printf("failed to place order (qty %d): %v", qty, err)
				continue
			}
			fmt.Printf("-> sent %s %s order qty=%d price=%d\n", orderType, side, qty, *price)
			time.Sleep(5 * time.Millisecond)
		}

	case "cancel":
		if *orderID == 0 {
			log.Fatal("-order-id is required for cancel")
		}
		if err := sendFrame(conn, wire.EncodeCancelOrder(engine.Equities, *orderID)); err != nil {
			log.Printf("failed to send cancel: %v", err)
		} else {
			fmt.Printf("-> sent cancel for order %d\n", *orderID)
		}

	case "modify":
		if *orderID == 0 {
			log.Fatal("-order-id is required for modify")
		}
		newPrice := int32(*price)
		mod := engine.Modification{Price: &newPrice}
		if err := sendFrame(conn, wire.EncodeModifyOrder(engine.Equities, *orderID, mod)); err != nil {
			log.Printf("failed to send modify: %v", err)
		} else {
			fmt.Printf("-> sent modify for order %d, new price %d\n", *orderID, newPrice)
		}

	case "log":
		if err := sendFrame(conn, wire.EncodeLogBook(engine.Equities)); err != nil {
			log.Printf("failed to send log request: %v", err)
		} else {
			fmt.Println("-> sent log request")
		}

	default:
		log.Fatalf("unknown action: %s", *action)
	}

	fmt.Println("\nlistening for reports... (press ctrl+c to exit)")
	select {}
}

func parseOrderType(s string) engine.OrderType {
	switch strings.ToLower(s) {
	case "market":
		return engine.Market
	case "gteod":
		return engine.GoodTillEOD
	case "fok":
		return engine.FillOrKill
	case "fak":
		return engine.FillAndKill
	default:
		return engine.GoodTillCancel
	}
}

func parseQuantities(input string) []uint32 {
	var result []uint32
	for _, p := range strings.Split(input, ",") {
		p = strings.TrimSpace(p)
		if val, err := strconv.ParseUint(p, 10, 32); err == nil {
			result = append(result, uint32(val))
		} else {
			log.Printf("warning: invalid quantity %q, skipping", p)
		}
	}
	return result
}

func sendFrame(conn net.Conn, payload []byte) error {
	frame := make([]byte, wire.LengthPrefixLen+len(payload))
	binary.LittleEndian.PutUint32(frame[:wire.LengthPrefixLen], uint32(len(payload)))
	copy(frame[wire.LengthPrefixLen:], payload)
	_, err := conn.Write(frame)
	return err
}

// readReports prints each response as it arrives. A response's payload
// length isn't self-describing on the wire beyond what a single read
// delivers, so this assumes (as is true in practice for this protocol's
// small payloads) that one report lands in one Read.
func readReports(conn net.Conn) {
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			log.Printf("connection closed: %v", err)
			os.Exit(0)
		}
		if n < 4+32 {
			continue
		}
		status := binary.BigEndian.Uint32(buf[:4])
		statusText := strings.TrimRight(string(buf[4:36]), "\x00")
		fmt.Printf("\n[REPORT] status=%d (%s) payload_bytes=%d\n", status, statusText, n-36)
	}
}
