// Command chatclient is a terminal front end for the relay server. It keeps
// the same session rules as the browser page: one request in flight, one
// recording at a time, history that lives only as long as the process.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"chatrelay/internal/chatui"
	"chatrelay/internal/models"
)

func main() {
	server := flag.String("server", "http://localhost:8090", "relay server base URL")
	lang := flag.String("lang", "auto", "reply language preference")
	timeout := flag.Duration("timeout", 2*time.Minute, "per-request timeout")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	language, err := models.ParseLanguage(*lang)
	if err != nil {
		log.Fatalf("parse language: %v", err)
	}

	out := &printer{}
	recorder := &chatui.FileRecorder{}
	relay := chatui.NewHTTPRelay(*server, &http.Client{Timeout: *timeout})
	ctrl := chatui.NewController(relay, recorder, out.render)
	ctrl.SetLanguage(language)

	fmt.Printf("Connected to %s. Commands: /lang <name>, /voice <file>, /history, /quit\n", *server)
	scanner := bufio.NewScanner(os.Stdin)
	var pending []string
	for {
		if ctx.Err() != nil {
			return
		}
		if len(pending) == 0 {
			fmt.Print("> ")
		} else {
			fmt.Print(". ")
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()

		// A trailing backslash continues the message on the next line.
		if strings.HasSuffix(line, `\`) {
			pending = append(pending, strings.TrimSuffix(line, `\`))
			continue
		}
		if len(pending) > 0 {
			pending = append(pending, line)
			line = strings.Join(pending, "\n")
			pending = nil
			ctrl.Submit(ctx, line)
			continue
		}

		if !strings.HasPrefix(line, "/") {
			ctrl.Submit(ctx, line)
			continue
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		arg = strings.TrimSpace(arg)
		switch cmd {
		case "/quit", "/exit":
			return
		case "/lang":
			l, err := models.ParseLanguage(arg)
			if err != nil {
				fmt.Printf("! %v (choose from %s)\n", err, languageList())
				continue
			}
			ctrl.SetLanguage(l)
			fmt.Printf("* language set to %s\n", l)
		case "/voice":
			if arg == "" {
				fmt.Println("! usage: /voice <audio file>")
				continue
			}
			recorder.SetSource(arg)
			out.echoUser = true
			if err := ctrl.ToggleRecording(ctx); err == nil {
				_ = ctrl.ToggleRecording(ctx)
			}
			out.echoUser = false
		case "/history":
			for _, m := range ctrl.View().History {
				fmt.Printf("%s: %s\n", m.Role, m.Content)
			}
		default:
			fmt.Printf("! unknown command %s\n", cmd)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("read input: %v", err)
	}
}

// printer echoes new history entries and error banners as the view changes.
type printer struct {
	shown    int
	lastErr  string
	state    chatui.RecordingState
	echoUser bool
}

func (p *printer) render(v chatui.View) {
	for ; p.shown < len(v.History); p.shown++ {
		m := v.History[p.shown]
		switch {
		case m.Role == models.RoleAssistant:
			fmt.Printf("bot: %s\n", m.Content)
		case p.echoUser:
			fmt.Printf("you: %s\n", m.Content)
		}
	}
	if v.Recording != p.state {
		p.state = v.Recording
		if v.Recording != chatui.StateIdle {
			fmt.Printf("* %s...\n", v.Recording)
		}
	}
	if v.Error != p.lastErr {
		p.lastErr = v.Error
		if v.Error != "" {
			fmt.Printf("! %s\n", v.Error)
		}
	}
}

func languageList() string {
	names := make([]string, len(models.Languages))
	for i, l := range models.Languages {
		names[i] = string(l)
	}
	return strings.Join(names, ", ")
}
