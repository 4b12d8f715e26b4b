package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"socialnet/internal/config"
	"socialnet/internal/db"
	"socialnet/internal/domain"
	"socialnet/internal/repository"
	"socialnet/internal/service"
)

// services agrupa lo que usa la consola.
type services struct {
	auth     *service.AuthService
	users    *service.UserService
	posts    *service.PostService
	friends  *service.FriendshipService
	messages *service.MessageService
}

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewPgUserRepository(pool)
	postRepo := repository.NewPgPostRepository(pool)
	friendshipRepo := repository.NewPgFriendshipRepository(pool)
	imageRepo := repository.NewPgImageRepository(pool)

	friendSvc := service.NewFriendshipService(friendshipRepo, userRepo)
	svc := services{
		auth:     service.NewAuthService(logger, userRepo, service.NewMemoryLoginRateLimiter(time.Duration(cfg.LoginRateLimitWindowMinutes)*time.Minute, cfg.LoginRateLimitMax)),
		users:    service.NewUserService(logger, userRepo, imageRepo, nil),
		posts:    service.NewPostService(logger, postRepo, userRepo, imageRepo, nil),
		friends:  friendSvc,
		messages: service.NewMessageService(repository.NewPgMessageRepository(pool), userRepo, friendSvc),
	}

	for {
		fmt.Println("===== Consola Social =====")
		fmt.Println("[1] Registrar usuario")
		fmt.Println("[2] Entrar")
		fmt.Println("[3] Salir")
		fmt.Print("Selecciona una opcion: ")

		line, _ := reader.ReadString('\n')
		var (
			user domain.User
			err  error
		)
		switch strings.TrimSpace(line) {
		case "1":
			username, password := readCredentials(reader)
			user, err = svc.auth.Register(ctx, username, password)
		case "2":
			username, password := readCredentials(reader)
			user, err = svc.auth.Login(ctx, username, password)
		case "3":
			return
		default:
			fmt.Println("Opcion invalida.")
			continue
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		runUserMenu(ctx, reader, svc, user)
	}
}

func runUserMenu(ctx context.Context, reader *bufio.Reader, svc services, user domain.User) {
	for {
		fmt.Printf("\n--- Sesion de: %s ---\n", user.Username)
		fmt.Println("[1] Publicar")
		fmt.Println("[2] Ver feed reciente")
		fmt.Println("[3] Enviar solicitud de amistad")
		fmt.Println("[4] Aceptar solicitudes pendientes")
		fmt.Println("[5] Enviar mensaje")
		fmt.Println("[6] Ver conversacion")
		fmt.Println("[7] Cerrar sesion")
		fmt.Print("Selecciona una opcion: ")

		line, _ := reader.ReadString('\n')
		var err error
		switch strings.TrimSpace(line) {
		case "1":
			err = publishFlow(ctx, reader, svc, user)
		case "2":
			err = feedFlow(ctx, reader, svc)
		case "3":
			err = friendRequestFlow(ctx, reader, svc, user)
		case "4":
			err = acceptPendingFlow(ctx, reader, svc, user)
		case "5":
			err = sendMessageFlow(ctx, reader, svc, user)
		case "6":
			err = conversationFlow(ctx, reader, svc, user)
		case "7":
			return
		default:
			fmt.Println("Opcion invalida.")
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}

func publishFlow(ctx context.Context, reader *bufio.Reader, svc services, user domain.User) error {
	content := readLine(reader, "Contenido: ")
	post, err := svc.posts.Create(ctx, user.ID, service.CreatePostInput{Content: content})
	if err != nil {
		return err
	}
	fmt.Printf("Post publicado (ID: %s)\n", post.ID)
	return nil
}

func feedFlow(ctx context.Context, reader *bufio.Reader, svc services) error {
	limit := readIntDefault(reader, "Cantidad (default 10): ", 10)
	posts, err := svc.posts.ListRecent(ctx, limit)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		fmt.Println("No hay posts.")
	}
	for _, p := range posts {
		fmt.Printf("[%s] %s: %s (%d likes)\n", p.CreatedAt.Format(time.DateTime), p.AuthorUsername, p.Content, p.LikeCount)
	}
	return nil
}

func friendRequestFlow(ctx context.Context, reader *bufio.Reader, svc services, user domain.User) error {
	other, err := svc.users.GetByUsername(ctx, readLine(reader, "Usuario: "))
	if err != nil {
		return err
	}
	if _, err := svc.friends.SendRequest(ctx, user.ID, other.ID); err != nil {
		return err
	}
	fmt.Printf("Solicitud enviada a %s.\n", other.Username)
	return nil
}

func acceptPendingFlow(ctx context.Context, reader *bufio.Reader, svc services, user domain.User) error {
	pending, err := svc.friends.ListPending(ctx, user.ID)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Println("No hay solicitudes pendientes.")
		return nil
	}
	for _, req := range pending {
		requester, err := svc.users.GetByID(ctx, req.RequesterID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				continue
			}
			return err
		}
		answer := readLine(reader, fmt.Sprintf("Aceptar a %s? [s/N]: ", requester.Username))
		if !strings.EqualFold(answer, "s") {
			continue
		}
		if _, err := svc.friends.Accept(ctx, user.ID, req.ID); err != nil {
			return err
		}
		fmt.Printf("Ahora eres amigo de %s.\n", requester.Username)
	}
	return nil
}

func sendMessageFlow(ctx context.Context, reader *bufio.Reader, svc services, user domain.User) error {
	other, err := svc.users.GetByUsername(ctx, readLine(reader, "Para: "))
	if err != nil {
		return err
	}
	if _, err := svc.messages.Send(ctx, user.ID, other.ID, readLine(reader, "Mensaje: ")); err != nil {
		return err
	}
	fmt.Println("Mensaje enviado.")
	return nil
}

func conversationFlow(ctx context.Context, reader *bufio.Reader, svc services, user domain.User) error {
	other, err := svc.users.GetByUsername(ctx, readLine(reader, "Con: "))
	if err != nil {
		return err
	}
	messages, err := svc.messages.Conversation(ctx, user.ID, other.ID, 0)
	if err != nil {
		return err
	}
	for _, m := range messages {
		from := other.Username
		if m.SenderID == user.ID {
			from = "Tu"
		}
		fmt.Printf("%s > %s\n", from, m.Content)
	}
	return nil
}

func readCredentials(reader *bufio.Reader) (string, string) {
	return readLine(reader, "Usuario: "), readLine(reader, "Password: ")
}

func readLine(reader *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func readIntDefault(reader *bufio.Reader, prompt string, def int) int {
	line := readLine(reader, prompt)
	if line == "" {
		return def
	}
	if v, err := strconv.Atoi(line); err == nil {
		return v
	}
	return def
}
