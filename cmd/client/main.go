package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"flipseven-server/pkg/playable"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

var server = flag.String("server", "http://localhost:5000", "the server base URL")
var roomName = flag.String("room", "lobby", "the room to join")
var name = flag.String("name", "", "your display name (prompted when empty)")

type tokenResponse struct {
	Token    string `json:"token"`
	PlayerID int64  `json:"playerId"`
	Name     string `json:"name"`
}

func main() {
	flag.Parse()

	if *name == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		answer, err := getInput("Name (blank for a random one)")
		if err != nil {
			logrus.WithError(err).Fatal("could not get answer")
		}
		*name = answer
	}

	token, err := requestToken(*server, *name)
	if err != nil {
		logrus.WithError(err).Fatal("could not get a token")
	}

	fmt.Printf("Connecting to %s as %s\n", *roomName, token.Name)

	conn, err := dial(*server, *roomName, token.Token)
	if err != nil {
		logrus.WithError(err).Fatal("could not connect")
	}
	defer conn.Close()

	if term.IsTerminal(int(os.Stdin.Fd())) {
		runTerminal(conn)
		return
	}

	runPlain(conn)
}

func getInput(question string) (string, error) {
	fmt.Printf("%s: ", question)
	reader := bufio.NewReader(os.Stdin)
	str, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	str = strings.TrimRight(str, "\r\n")

	return str, nil
}

func requestToken(base, name string) (*tokenResponse, error) {
	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return nil, err
	}

	resp, err := http.Post(base+"/token", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, err
	}

	return &token, nil
}

func dial(base, room, token string) (*websocket.Conn, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	u.Path = "/room/" + room + "/ws"
	u.RawQuery = url.Values{"access_token": {token}}.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	return conn, err
}

func format(resp playable.Response) string {
	switch resp.Key {
	case playable.KeyPrivate:
		return "* " + resp.Value
	case playable.KeyError:
		return "! " + resp.Value
	default:
		return resp.Value
	}
}

// readLoop prints every message until the connection closes
func readLoop(conn *websocket.Conn, out io.Writer, done chan<- struct{}) {
	defer close(done)

	for {
		var resp playable.Response
		if err := conn.ReadJSON(&resp); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				_, _ = fmt.Fprintf(out, "disconnected: %v\n", err)
			}
			return
		}

		for _, line := range strings.Split(format(resp), "\n") {
			_, _ = fmt.Fprintln(out, line)
		}
	}
}

// runTerminal keeps the prompt intact while messages arrive
func runTerminal(conn *websocket.Conn) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logrus.WithError(err).Fatal("could not set up the terminal")
	}
	defer func() { _ = term.Restore(fd, oldState) }()

	screen := struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout}
	t := term.NewTerminal(screen, "> ")

	done := make(chan struct{})
	go readLoop(conn, t, done)

	lines := make(chan string)
	go func() {
		defer close(lines)
		for {
			line, err := t.ReadLine()
			if err != nil {
				return
			}
			lines <- line
		}
	}()

	relay(conn, lines, done)
}

func runPlain(conn *websocket.Conn) {
	done := make(chan struct{})
	go readLoop(conn, os.Stdout, done)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	relay(conn, lines, done)
}

func relay(conn *websocket.Conn, lines <-chan string, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case line, ok := <-lines:
			if !ok || line == "/quit" {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
				return
			}

			if strings.TrimSpace(line) == "" {
				continue
			}

			if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
				logrus.WithError(err).Error("could not send message")
				return
			}
		}
	}
}
