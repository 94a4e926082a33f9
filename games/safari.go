package games

// Twenty questions, but every answer is an animal
// Solo mode: the bot draws a secret animal; the player asks yes/no questions about traits and guesses
// Score starts at 100 and drops 5 per question or wrong guess, floored at zero
// Match mode: two players, red and blue, in a room with a short join code
// Each picks a secret animal; a die roll decides who asks first (red wins ties)
// On your turn, ask for a hint: the bot recommends the trait that splits your remaining candidates closest to even
// Your opponent looks the trait up against their own secret ("check") and tells you yes or no
// Recording the answer filters your candidate list and passes the turn
// Guess right to win; guess wrong and the opponent gets your turn plus one bonus turn

// Implementation details:
// - One websocket per player, identified by cookie
// - Each player tracks their own remaining-candidate list; nothing about the opponent's deductions leaks
// - The trait matrix is a static JSON file embedded at build time
// - Blurb/Trivia/Group rows are descriptive only and never become questions
