package main

import (
	"github.com/lucaswall/food-scanner-sub003/config"
	"github.com/lucaswall/food-scanner-sub003/routes"
	"github.com/lucaswall/food-scanner-sub003/utils"
)

func main() {
	config.InitDB()
	utils.InitS3()
	r := routes.SetupRouter()
	r.Run(":8080")
}
