package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"alisa/config"
	"alisa/core"
	"alisa/factories"
	"alisa/services/gtranslate/tts"
	"alisa/session"
	"alisa/storage/supabase"

	"github.com/joho/godotenv"
)

func main() {
	var (
		secretsPath string
		backendName string
		sessionID   string
		userName    string
		language    string
		voice       bool
	)
	flag.StringVar(&secretsPath, "secrets", "secrets.json", "path to the JSON secrets file")
	flag.StringVar(&backendName, "backend", "sqlite", "storage backend: sqlite or supabase")
	flag.StringVar(&sessionID, "session", "", "session id (defaults to a time-derived value)")
	flag.StringVar(&userName, "name", "", "your name, prefixed to each message")
	flag.StringVar(&language, "lang", "English", "assistant language: English or Urdu")
	flag.BoolVar(&voice, "voice", false, "enable voice output (TTS)")
	flag.Parse()

	logger := core.GetLogger()

	if err := godotenv.Load(".env.local"); err != nil {
		logger.With(map[string]any{"error": err}).Warn("No .env.local file found or failed to load")
	}

	secrets, err := config.LoadSecrets(secretsPath)
	if err != nil {
		logger.With(map[string]any{"error": err}).Warn("failed to load secrets, continuing without them")
		secrets = config.Secrets{}
	}
	resolver := config.NewResolver(secrets)

	cfg := factories.DefaultSessionFactoryConfig(resolver)
	if backendName == "supabase" {
		cfg.Storage = factories.StorageFactoryConfig{
			SupabaseConfig: &supabase.Config{
				URL: resolver.SupabaseURL(),
				Key: resolver.SupabaseKey(),
			},
		}
	}
	if voice {
		cfg.TTS = &tts.Config{}
	}
	cfg.SessionID = sessionID
	cfg.UserName = userName
	cfg.Settings = session.Settings{
		Language:    config.Language(language),
		VoiceOutput: voice,
	}

	sess, err := factories.BuildSession(cfg, resolver, logger)
	if err != nil {
		logger.Fatal("failed to build session: %v", err)
	}

	fmt.Printf("ALISA — your study & life copilot (session %s, backend %s)\n", sess.ID, backendName)
	fmt.Println("Commands: /save, /load, /load user, /history, /quit")

	runREPL(context.Background(), sess)

	logger.Info("Shutting down...")
}

// runREPL reads lines from stdin until EOF or /quit, treating /-prefixed
// lines as commands and everything else as a chat message.
func runREPL(ctx context.Context, sess *session.Session) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit" || line == "/exit":
			return

		case line == "/save":
			if w := sess.Save(ctx); w != nil {
				fmt.Println(w.Display())
			} else {
				fmt.Println("Saved.")
			}

		case line == "/load" || line == "/load session":
			loadAndShow(ctx, sess, session.LoadBySession)

		case line == "/load user":
			loadAndShow(ctx, sess, session.LoadByUser)

		case line == "/history":
			printHistory(sess)

		default:
			reply := sess.SendText(ctx, line)
			fmt.Println("alisa> " + reply.Text)
			if len(reply.Audio) > 0 {
				fmt.Printf("(voice reply: %d bytes of audio)\n", len(reply.Audio))
			}
		}
	}
}

func loadAndShow(ctx context.Context, sess *session.Session, scope session.LoadScope) {
	if w := sess.Load(ctx, scope); w != nil {
		fmt.Println(w.Display())
	}
	printHistory(sess)
}

func printHistory(sess *session.Session) {
	turns := sess.Turns()
	if len(turns) <= 1 {
		fmt.Println("(no messages)")
		return
	}
	for _, t := range turns[1:] { // skip the placeholder system turn
		fmt.Printf("%s: %s\n", t.Role, t.Content)
	}
}
