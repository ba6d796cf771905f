// Code generated by handlergen. DO NOT EDIT.

package commands

import "tg-seed-bot/internal/loader"

// Units lists every handler unit in this directory.
var Units = []loader.Unit{
	{Stem: "help", Init: InitHelp},
	{Stem: "start", Init: InitStart},
}
