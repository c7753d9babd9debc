package auth

import (
	"log"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

type Authenticator struct{}

// GenerateSecret uses SHA1 for authenticator app compatibility
func (g *Authenticator) GenerateSecret(accountName string) (string, string, error) {
	secret, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "ControleFin",
		AccountName: accountName,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		log.Println("Error during totp secret generation: ", err)
		return "", "", ErrInternalError
	}

	return secret.URL(), secret.Secret(), nil
}

func (g *Authenticator) VerifyCode(secret, code string) bool {
	return totp.Validate(code, secret)
}
