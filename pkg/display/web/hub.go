// Package web streams the frames of a running machine to browser
// clients over websockets. The first client to connect controls the
// machine, every other client spectates.
package web

import (
	"context"
	"encoding/binary"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/thelolagemann/gomeboy-ppu/internal/gameboy"
	"github.com/thelolagemann/gomeboy-ppu/internal/types"
	"github.com/thelolagemann/gomeboy-ppu/pkg/log"
)

// settings are the stream settings shared by every client.
type settings struct {
	Compression      bool
	CompressionLevel int
	FramePatching    bool
	FramePatchRatio  int
	FrameSkipping    bool
}

// message is a payload queued for broadcast, optionally skipping the
// client that caused it.
type message struct {
	data   []byte
	except *Client
}

// Hub keeps track of the connected clients and fans the stream out
// to them. Client registration and all sends happen on the goroutine
// running Run.
type Hub struct {
	clients map[*Client]bool
	player  *Player

	broadcast            chan message
	register, unregister chan *Client
	done                 chan struct{}

	settings  settings
	currentID uint8
	mu        sync.Mutex // guards settings, currentID and client metadata

	log log.Logger
}

// Opt configures a Hub.
type Opt func(h *Hub)

// WithLogger sets the logger used by the hub.
func WithLogger(l log.Logger) Opt {
	return func(h *Hub) {
		h.log = l
	}
}

// WithCompression brotli compresses frames at the given quality (0-11).
func WithCompression(level int) Opt {
	return func(h *Hub) {
		h.settings.Compression = true
		h.settings.CompressionLevel = level
	}
}

// WithFramePatching sends only the changed pixels when fewer than
// ratio fifths of the screen changed.
func WithFramePatching(ratio int) Opt {
	return func(h *Hub) {
		h.settings.FramePatching = true
		h.settings.FramePatchRatio = ratio
	}
}

// WithFrameSkipping withholds frames identical to the last one sent.
func WithFrameSkipping() Opt {
	return func(h *Hub) {
		h.settings.FrameSkipping = true
	}
}

// NewHub creates a hub streaming gb.
func NewHub(gb *gameboy.GameBoy, opts ...Opt) *Hub {
	h := &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan message, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		settings: settings{
			CompressionLevel: 7,
			FramePatchRatio:  1,
		},
		log: log.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.player = newPlayer(h, gb)

	return h
}

// ListenAndServe runs the hub, the machine and an HTTP server on addr
// until ctx is done.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: h}

	go h.Run(ctx)
	go h.player.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	h.log.Infof("streaming on %s", addr)

	select {
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	case err := <-errCh:
		return err
	}
}

// ServeHTTP upgrades the request to a websocket and attaches a client.
func (h *Hub) ServeHTTP(wr http.ResponseWriter, r *http.Request) {
	wr.Header().Set("Access-Control-Allow-Origin", "*")

	conn, err := upgrader.Upgrade(wr, r, nil)
	if err != nil {
		h.log.Errorf("upgrading connection from %s: %v", r.RemoteAddr, err)
		return
	}

	c := h.newClient(conn, r)
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.ReadPump()
	go c.WritePump()
}

// Run handles client registration and broadcasting until ctx is done,
// at which point every client is disconnected.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	t := time.NewTicker(time.Second)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = true
			h.log.Infof("client %d connected from %s", c.ID, c.Metadata.RemoteAddr)

			h.mu.Lock()
			c.trySend([]byte{ClientInfo, ClientStatus, h.info(), uint8(h.settings.CompressionLevel), uint8(h.settings.FramePatchRatio)})
			h.mu.Unlock()
			c.trySend(append([]byte{ClientListSync}, h.clientList(c)...))
			h.player.sync(c)

			if h.player.controller() == nil {
				h.player.setController(c)
			}
		case c := <-h.unregister:
			if !h.clients[c] {
				continue
			}
			h.drop(c)
			h.log.Infof("client %d disconnected", c.ID)

			for cl := range h.clients {
				cl.trySend([]byte{ClientClosing, c.ID})
			}

			if h.player.controller() == c {
				h.player.setController(h.nextPlayer())
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				if c == msg.except {
					continue
				}
				if !c.trySend(msg.data) {
					h.log.Warnf("client %d is not keeping up, disconnecting", c.ID)
					h.drop(c)
				}
			}
		case <-t.C:
			// latency of each client, as [ID, latency (ms)]
			data := []byte{ServerInfo}
			for c := range h.clients {
				data = append(data, c.ID)
				data = binary.LittleEndian.AppendUint16(data, uint16(c.avgLatency.Load()))
			}
			for c := range h.clients {
				c.trySend(data)
			}
		}
	}
}

// drop removes c from the hub and closes its send channel.
func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.Send)
}

// SendAll queues data for every client.
func (h *Hub) SendAll(data []byte) {
	h.send(message{data: data})
}

// sendAllButClient queues data for every client other than client.
// Used for events such as username registration, where the client
// initiated the event so is already aware of it.
func (h *Hub) sendAllButClient(client *Client, data []byte) {
	h.send(message{data: data, except: client})
}

func (h *Hub) send(msg message) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// leave unregisters c, if the hub is still running.
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// configure applies a System message from c, and relays it to the
// other clients.
func (h *Hub) configure(c *Client, msg []byte) {
	if len(msg) < 2 {
		return
	}

	h.mu.Lock()
	switch msg[0] {
	case Compression:
		h.settings.Compression = msg[1] == 1
	case CompressionLevel:
		h.settings.CompressionLevel = int(msg[1] % 12)
	case FramePatching:
		h.settings.FramePatching = msg[1] == 1
	case FramePatchingRatio:
		h.settings.FramePatchRatio = int(msg[1])
	case FrameSkipping:
		h.settings.FrameSkipping = msg[1] == 1
	case RegisterUsername:
		c.Metadata.Username = string(msg[1:])
		h.mu.Unlock()

		h.SendAll(append([]byte{ClientInfo, RegisterUsername, c.ID}, msg[1:]...))
		return
	default:
		h.mu.Unlock()
		h.log.Debugf("client %d sent unknown setting %d", c.ID, msg[0])
		return
	}
	h.mu.Unlock()

	h.sendAllButClient(c, append([]byte{ClientInfo}, msg...))
}

// config returns a copy of the current settings.
func (h *Hub) config() settings {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.settings
}

// info returns a byte of information containing the various
// hub settings. The byte is constructed as follows:
//
//	Bit 0: Running status of the machine
//	Bit 2: Compression enabled
//	Bit 3: Frame patching enabled
//	Bit 4: Frame skipping enabled
//	Bit 5: Machine paused
func (h *Hub) info() byte {
	info := uint8(0)
	if h.player.gb.Paused() {
		info |= types.Bit5
	} else {
		info |= types.Bit0
	}

	if h.settings.Compression {
		info |= types.Bit2
	}
	if h.settings.FramePatching {
		info |= types.Bit3
	}
	if h.settings.FrameSkipping {
		info |= types.Bit4
	}

	return info
}

// clientList describes every client other than c, one per line, as
// address, user agent, username and ID separated by NUL.
func (h *Hub) clientList(c *Client) []byte {
	h.mu.Lock()
	defer h.mu.Unlock()

	var data []byte
	for cl := range h.clients {
		if c == cl {
			continue // skip self
		}

		data = append(data, cl.Metadata.RemoteAddr...)
		data = append(data, 0)
		data = append(data, cl.Metadata.UserAgent...)
		data = append(data, 0)
		data = append(data, cl.Metadata.Username...)
		data = append(data, 0)
		data = append(data, cl.ID)
		data = append(data, '\n')
	}

	if len(data) > 0 {
		// remove last newline to avoid issues with JS
		data = data[:len(data)-1]
	}
	return data
}

// nextPlayer returns the longest connected client, which takes over
// control of the machine when the controlling client leaves.
func (h *Hub) nextPlayer() *Client {
	var next *Client
	for c := range h.clients {
		if next == nil || c.connectedAt.Before(next.connectedAt) {
			next = c
		}
	}

	return next
}

// newClient creates a new client for conn.
func (h *Hub) newClient(conn *websocket.Conn, r *http.Request) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.currentID++

	c := &Client{
		hub:         h,
		conn:        conn,
		Send:        make(chan []byte, 256),
		ID:          h.currentID,
		connectedAt: time.Now(),
	}
	c.Metadata.RemoteAddr = r.RemoteAddr
	c.Metadata.UserAgent = r.Header.Get("User-Agent")
	return c
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 16,
	WriteBufferSize: 1024 * 16,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}
