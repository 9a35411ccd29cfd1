// Package auth は電話番号とパスワードによる認証、セッション管理を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/promptbox/internal/model"
	"github.com/hitoshi/promptbox/internal/repository"
)

// phonePattern は携帯電話番号の形式。1で始まり、2桁目が3〜9の11桁の数字。
var phonePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)

// minPasswordLength はパスワードの最小文字数。
const minPasswordLength = 6

// PasswordStore はパスワードのハッシュ化と検証のインターフェース。
type PasswordStore interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// SessionManager はセッションのライフサイクル管理のインターフェース。
type SessionManager interface {
	Issue(ctx context.Context, userID string) (*model.Session, error)
	Load(ctx context.Context, token string) (*model.Session, error)
	Validate(session *model.Session) bool
	Clear(ctx context.Context, token string) error
	ClearUser(ctx context.Context, userID string) error
}

// IdentityListener は認証状態の変化を受け取るインターフェース。
// サインイン・サインアウト成功後に通知される。
// お気に入り同期などの派生キャッシュが実装する。
type IdentityListener interface {
	// OnSignIn はサインイン成功後に呼ばれる。
	// エラーを返しても認証自体は失敗しない（ログに記録されるのみ）。
	OnSignIn(ctx context.Context, userID string) error
	// OnSignOut はサインアウト時に呼ばれる。
	OnSignOut(userID string)
}

// Result は認証操作の結果。プロフィールはDBトリガーによる作成と
// レースした直後はnilになり得る。
type Result struct {
	User    *model.User
	Profile *model.Profile
	Session *model.Session
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	passwords   PasswordStore
	sessions    SessionManager
	listeners   []IdentityListener
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	passwords PasswordStore,
	sessions SessionManager,
) *Service {
	return &Service{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		passwords:   passwords,
		sessions:    sessions,
	}
}

// AddListener は認証状態の変化を通知するリスナーを登録する。
// サーバー起動時の配線でのみ呼ぶこと（スレッドセーフではない）。
func (s *Service) AddListener(l IdentityListener) {
	s.listeners = append(s.listeners, l)
}

// SignUp は新規ユーザーを登録し、セッションを発行する。
// usernameが空の場合は電話番号の下4桁から既定のユーザー名を生成する。
// profilesレコードはDBトリガーで自動作成される。
func (s *Service) SignUp(ctx context.Context, phone, password, username, fullName string) (*Result, error) {
	phone = strings.TrimSpace(phone)

	if !phonePattern.MatchString(phone) {
		return nil, model.NewInvalidPhoneError()
	}
	if len(password) < minPasswordLength {
		return nil, model.NewPasswordTooShortError()
	}

	// 電話番号の重複チェック。無効化済みユーザーも含めて検査する。
	existing, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to check phone: %w", err)
	}
	if existing != nil {
		return nil, model.NewPhoneTakenError()
	}

	username = strings.TrimSpace(username)
	if username == "" {
		username = defaultUsername(phone)
	}

	// 既定生成したユーザー名も重複し得るため、指定の有無にかかわらず検査する。
	taken, err := s.userRepo.FindByUsername(ctx, username, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken != nil {
		return nil, model.NewUsernameTakenError()
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Phone:        phone,
		PasswordHash: hash,
		Username:     username,
		FullName:     fullName,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	session, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("new user signed up",
		slog.String("user_id", user.ID),
		slog.String("username", username),
	)

	// トリガーによる作成直後はまだ読めないことがある。nilでも登録は成功扱い。
	profile, err := s.profileRepo.FindByID(ctx, user.ID)
	if err != nil {
		slog.Warn("failed to load profile after signup",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		profile = nil
	}

	s.notifySignIn(ctx, user.ID)

	return &Result{User: user, Profile: profile, Session: session}, nil
}

// SignIn は電話番号とパスワードで認証し、セッションを発行する。
// 形式不正な電話番号は認証を試みる前にバリデーションエラーとして返す。
// 電話番号未登録・ユーザー無効・パスワード不一致のいずれでも
// 同一のエラーを返し、どの条件で失敗したかを漏らさない。
func (s *Service) SignIn(ctx context.Context, phone, password string) (*Result, error) {
	phone = strings.TrimSpace(phone)

	if !phonePattern.MatchString(phone) {
		return nil, model.NewInvalidPhoneError()
	}

	user, err := s.userRepo.FindActiveByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewInvalidCredentialsError()
	}
	if !s.passwords.Verify(password, user.PasswordHash) {
		return nil, model.NewInvalidCredentialsError()
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		// ログイン時刻の記録失敗で認証を落とさない
		slog.Warn("failed to update last login",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	session, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("user signed in", slog.String("user_id", user.ID))

	profile, err := s.profileRepo.FindByID(ctx, user.ID)
	if err != nil {
		slog.Warn("failed to load profile after signin",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		profile = nil
	}

	s.notifySignIn(ctx, user.ID)

	return &Result{User: user, Profile: profile, Session: session}, nil
}

// SignOut はセッションを破棄する。
// セッションの削除が失敗してもクライアント側の認証状態は破棄されるため、
// エラーはログに記録するのみで常に成功する。
func (s *Service) SignOut(ctx context.Context, token string) {
	var userID string
	if session, err := s.sessions.Load(ctx, token); err == nil && session != nil {
		userID = session.UserID
	}

	if err := s.sessions.Clear(ctx, token); err != nil {
		slog.Warn("failed to clear session on signout",
			slog.String("error", err.Error()),
		)
	}

	if userID != "" {
		for _, l := range s.listeners {
			l.OnSignOut(userID)
		}
	}

	slog.Info("user signed out", slog.String("user_id", userID))
}

// CurrentUser はセッショントークンから現在のユーザーとプロフィールを取得する。
// セッションが無効・期限切れ、またはユーザーが削除・無効化済みの場合は
// セッションを破棄して未認証エラーを返す。
func (s *Service) CurrentUser(ctx context.Context, token string) (*model.User, *model.Profile, error) {
	session, err := s.sessions.Load(ctx, token)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !s.sessions.Validate(session) {
		return nil, nil, model.NewUnauthorizedError()
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || !user.IsActive {
		// セッションが指すユーザーが消えている。セッションも無効化する。
		if err := s.sessions.Clear(ctx, token); err != nil {
			slog.Warn("failed to clear stale session",
				slog.String("error", err.Error()),
			)
		}
		return nil, nil, model.NewUnauthorizedError()
	}

	profile, err := s.profileRepo.FindByID(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find profile: %w", err)
	}

	return user, profile, nil
}

// UpdateProfile はプロフィールを部分更新し、更新後のプロフィールを返す。
// ユーザー名の変更時は自分以外との重複を検査し、users側のユーザー名も同期する。
func (s *Service) UpdateProfile(ctx context.Context, userID string, update repository.ProfileUpdate) (*model.Profile, error) {
	if update.Username != nil && strings.TrimSpace(*update.Username) == "" {
		// 空のユーザー名は変更なしとして扱う
		update.Username = nil
	}

	if update.Username != nil {
		username := strings.TrimSpace(*update.Username)
		taken, err := s.userRepo.FindByUsername(ctx, username, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if taken != nil {
			return nil, model.NewUsernameTakenError()
		}
		update.Username = &username

		if err := s.userRepo.UpdateUsername(ctx, userID, username); err != nil {
			return nil, fmt.Errorf("failed to update username: %w", err)
		}
	}

	if err := s.profileRepo.Update(ctx, userID, update); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload profile: %w", err)
	}
	if profile == nil {
		return nil, model.NewUserNotFoundError()
	}

	slog.Info("profile updated", slog.String("user_id", userID))
	return profile, nil
}

// notifySignIn は登録済みリスナーにサインインを通知する。
// リスナーの失敗は認証結果に影響しない。
func (s *Service) notifySignIn(ctx context.Context, userID string) {
	for _, l := range s.listeners {
		if err := l.OnSignIn(ctx, userID); err != nil {
			slog.Warn("identity listener failed on sign-in",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}
}

// defaultUsername は電話番号の下4桁から既定のユーザー名を生成する。
func defaultUsername(phone string) string {
	return "user_" + phone[len(phone)-4:]
}
