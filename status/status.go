// Package status broadcasts engine events (frames, origin shifts,
// errors) to inspector clients over websocket. The core itself is
// single-threaded; this is the I/O edge around it.
package status

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"
)

const (
	KindInfo        = "info"
	KindError       = "error"
	KindFrame       = "frame"
	KindOriginShift = "originshift"
)

type event struct {
	Kind    string
	Message string
	Time    time.Time

	Frame  uint64     `json:",omitempty"`
	Origin [3]float64 `json:",omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *client) writePump() {
	ticker := time.NewTicker(time.Second * 30)
	defer func() {
		ticker.Stop()
		unregisterClient(c)
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[status] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[status] ws write ping error: %v", err)
				return
			}
		}
	}
}

func NewClient(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, 32)}
	registerClient(c)
	go c.writePump()
	globalLock.Lock()
	defer globalLock.Unlock()
	if lastMessage != nil {
		c.send <- lastMessage
	}
}

var broadcast chan *event
var clients map[*client]bool
var globalLock sync.Mutex
var lastMessage []byte

func registerClient(c *client) {
	globalLock.Lock()
	defer globalLock.Unlock()
	clients[c] = true
}

func unregisterClient(c *client) {
	globalLock.Lock()
	defer globalLock.Unlock()
	delete(clients, c)
	close(c.send)
}

func init() {
	broadcast = make(chan *event, 16)
	clients = make(map[*client]bool)
	go func() {
		for e := range broadcast {
			data, err := json.Marshal(e)
			if err != nil {
				log.Printf("[status] marshal error: %v", err)
				continue
			}
			globalLock.Lock()
			lastMessage = data
			for c := range clients {
				select {
				case c.send <- data:
				default:
					// slow client, drop the event
				}
			}
			globalLock.Unlock()
		}
	}()
}

func publish(e *event) {
	e.Time = time.Now()
	select {
	case broadcast <- e:
	default:
	}
}

func Info(format string, a ...interface{}) {
	publish(&event{Kind: KindInfo, Message: fmt.Sprintf(format, a...)})
}

func Error(format string, a ...interface{}) {
	publish(&event{Kind: KindError, Message: fmt.Sprintf(format, a...)})
}

func Frame(frame uint64, took time.Duration) {
	publish(&event{Kind: KindFrame, Frame: frame, Message: took.String()})
}

func OriginShift(origin mgl64.Vec3) {
	publish(&event{Kind: KindOriginShift, Origin: [3]float64{origin.X(), origin.Y(), origin.Z()}})
}
