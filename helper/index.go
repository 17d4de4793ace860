package helper

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"install_manager/constants"
	"install_manager/database"
	"install_manager/model"
	"install_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var JwtSecret = []byte(os.Getenv("JWT_SECRET"))

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func GetUserByUsername(u string) (*model.Account, error) {
	db := database.DB
	var account model.Account
	if err := db.Where(&model.Account{Username: u}).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func GetAccountByEmail(e string) (*model.Account, error) {
	db := database.DB
	var account model.Account
	if err := db.Where(&model.Account{Email: e}).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func GenerateAccessToken(tokenClaim model.TokenClaim) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["username"] = tokenClaim.Username
	claims["accountId"] = tokenClaim.AccountId
	claims["role"] = string(tokenClaim.Role)
	claims["exp"] = time.Now().Add(time.Minute * 60).Unix()

	t, err := token.SignedString(JwtSecret)
	return t, err
}

func GenerateRefreshToken(tokenClaim model.TokenClaim) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["username"] = tokenClaim.Username
	claims["accountId"] = tokenClaim.AccountId
	claims["exp"] = time.Now().Add(time.Hour * 24 * 7).Unix()

	t, err := token.SignedString(JwtSecret)
	return t, err
}

func ParseToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return JwtSecret, nil
	})

	return token, err
}

// GetActor resolves the authenticated account behind the request token. The
// role always comes from the account row, not the token, so deactivation and
// role changes take effect immediately.
func GetActor(c *fiber.Ctx) (model.TokenClaim, *model.Account, error) {
	tokenVal := c.Locals("user")
	token, ok := tokenVal.(*jwt.Token)
	if !ok || token == nil {
		return model.TokenClaim{}, nil, errors.New("no token in request context")
	}

	claims := token.Claims.(jwt.MapClaims)
	accountId := uint(claims["accountId"].(float64))

	var account model.Account
	if err := database.DB.Preload("Engineer").Preload("ClientRef").First(&account, accountId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Account not found: id=%d", accountId)
			return model.TokenClaim{}, nil, errors.New("account not found")
		}
		return model.TokenClaim{}, nil, err
	}

	if !account.Active {
		return model.TokenClaim{}, nil, errors.New(constants.ACCOUNT_NOT_ACTIVE)
	}

	claim := model.TokenClaim{
		AccountId: account.ID,
		Username:  account.Username,
		Role:      account.Role,
	}
	return claim, &account, nil
}

// RequireActor is GetActor plus the standard 401 response.
func RequireActor(c *fiber.Ctx) (model.TokenClaim, *model.Account, bool) {
	claim, account, err := GetActor(c)
	if err != nil {
		utils.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", err)
		return claim, account, false
	}
	return claim, account, true
}
