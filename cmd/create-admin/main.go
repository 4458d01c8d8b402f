package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/mail"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/sgp/sgp-backend/internal/config"
	"github.com/sgp/sgp-backend/internal/database"
	"github.com/sgp/sgp-backend/internal/logger"
	"github.com/sgp/sgp-backend/internal/model"
	"github.com/sgp/sgp-backend/internal/repository"
	"github.com/sgp/sgp-backend/internal/service"
	"golang.org/x/term"
)

// defaultRoleID is the seeded "Administrador" role.
const defaultRoleID = 1

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	adminService := service.NewAdminService(
		repository.NewAdminRepository(pool),
		repository.NewRoleRepository(pool),
		service.NewAuthService(cfg),
	)

	// ─── CLI Input ─────────────────────────────────────────────────────
	in := &prompter{reader: bufio.NewReader(os.Stdin)}

	fmt.Println("=== Cadastrar Administrador ===")

	admin := &model.Admin{}
	password, err := in.collect(admin)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Erro:", err)
		os.Exit(1)
	}

	// ─── Create ────────────────────────────────────────────────────────
	if err := adminService.Create(ctx, admin, password); err != nil {
		log.Fatal().Err(err).Str("email", admin.Email).Msg("Failed to create admin")
	}

	fmt.Printf("\nAdministrador '%s' (%s) criado com ID %d\n", admin.Name, admin.Email, admin.ID)
}

type prompter struct {
	reader *bufio.Reader
}

func (p *prompter) line(label string) string {
	fmt.Print(label)
	s, _ := p.reader.ReadString('\n')
	return strings.TrimSpace(s)
}

// collect fills admin from stdin and returns the typed password.
func (p *prompter) collect(admin *model.Admin) (string, error) {
	admin.Name = p.line("Nome: ")
	if admin.Name == "" {
		return "", errors.New("nome é obrigatório")
	}

	admin.Email = strings.ToLower(p.line("E-mail: "))
	if _, err := mail.ParseAddress(admin.Email); err != nil {
		return "", fmt.Errorf("e-mail inválido: %s", admin.Email)
	}

	fmt.Print("Senha: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("leitura da senha: %w", err)
	}
	password := string(raw)
	if len(password) < 6 {
		return "", errors.New("a senha deve ter ao menos 6 caracteres")
	}

	admin.RoleID = defaultRoleID
	if s := p.line(fmt.Sprintf("ID do perfil (padrão %d): ", defaultRoleID)); s != "" {
		id, err := strconv.Atoi(s)
		if err != nil || id <= 0 {
			return "", fmt.Errorf("ID do perfil inválido: %s", s)
		}
		admin.RoleID = id
	}

	return password, nil
}
