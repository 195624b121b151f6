package discord

import "github.com/bwmarrin/discordgo"

func stringOpt(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

func intOpt(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        name,
		Description: description,
	}
}

func subcommand(name, description string, opts ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        name,
		Description: description,
		Options:     opts,
	}
}

// Commands is registered in bulk on startup.
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "rankings",
		Description: "Show the kingdom leaderboard",
		Options:     []*discordgo.ApplicationCommandOption{intOpt("page", "Leaderboard page")},
	},
	{
		Name:        "squad",
		Description: "Show a kingdom's profile",
		Options:     []*discordgo.ApplicationCommandOption{stringOpt("name", "Kingdom name", true)},
	},
	{
		Name:        "h2h",
		Description: "Head-to-head record between two kingdoms",
		Options: []*discordgo.ApplicationCommandOption{
			stringOpt("squad1", "First kingdom", true),
			stringOpt("squad2", "Second kingdom", true),
		},
	},
	{
		Name:        "predict",
		Description: "Ask the oracle who wins",
		Options: []*discordgo.ApplicationCommandOption{
			stringOpt("squad1", "First kingdom", true),
			stringOpt("squad2", "Second kingdom", true),
		},
	},
	{
		Name:        "report",
		Description: "Intelligence report on a kingdom",
		Options:     []*discordgo.ApplicationCommandOption{stringOpt("name", "Kingdom name", true)},
	},
	{
		Name:        "bounties",
		Description: "Show the bounty board",
	},
	{
		Name:        "stats",
		Description: "Realm statistics",
	},
	{
		Name:        "record",
		Description: "Record a battle result (moderators)",
		Options: []*discordgo.ApplicationCommandOption{
			stringOpt("team1", "First kingdom", true),
			stringOpt("team2", "Second kingdom", true),
			stringOpt("score", "Final score, e.g. 2-1", true),
		},
	},
	{
		Name:        "deletematch",
		Description: "Erase a recorded battle (moderators)",
		Options:     []*discordgo.ApplicationCommandOption{stringOpt("match_id", "Match ID", true)},
	},
	{
		Name:        "challenge",
		Description: "Issue and manage challenges",
		Options: []*discordgo.ApplicationCommandOption{
			subcommand("issue", "Challenge another kingdom",
				stringOpt("opponent", "Kingdom to challenge", true),
				stringOpt("message", "A word for your rivals", false)),
			subcommand("accept", "Accept a challenge", stringOpt("id", "Challenge ID", true)),
			subcommand("decline", "Decline a challenge", stringOpt("id", "Challenge ID", true)),
			subcommand("schedule", "Set the battle date (moderators)",
				stringOpt("id", "Challenge ID", true),
				stringOpt("when", "e.g. tomorrow 8 pm", true),
				stringOpt("notes", "Format, lobby, rules", false)),
			subcommand("cancel", "Cancel a challenge (moderators)", stringOpt("id", "Challenge ID", true)),
			subcommand("list", "Show open challenges", stringOpt("squad", "Only this kingdom", false)),
		},
	},
}
