// Command issuetoken prints a signed principal token for the admin API.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/talx-hub/points-ledger/internal/model/user"
	"github.com/talx-hub/points-ledger/internal/utils/auth"
)

func main() {
	uid := flag.String("u", "", "user id of the principal")
	role := flag.String("r", string(user.RoleAdmin), "principal role (admin|driver)")
	ttl := flag.Duration("ttl", auth.TokenExpire, "token lifetime")
	secret := flag.String("k", os.Getenv("SECRET_KEY"), "signing key, defaults to $SECRET_KEY")
	flag.Parse()

	if *uid == "" {
		log.Fatal("user id is required")
	}
	if *secret == "" {
		log.Fatal("signing key is required")
	}
	r := user.Role(*role)
	if r != user.RoleAdmin && r != user.RoleDriver {
		log.Fatalf("unknown role %q", *role)
	}

	token, err := auth.IssueToken(user.Principal{UserID: *uid, Role: r}, *ttl, []byte(*secret))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}
